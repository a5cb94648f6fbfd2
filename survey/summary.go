package survey

import (
	"strings"

	"github.com/mensio/brickstat/schema"
)

// Result is the outcome of a workflow run.
type Result interface {
	Tables() []schema.Table
	// Counts returns the number of components analysed, and how many of
	// them are whole or partial.
	Counts() (total, whole, partial int)
}

func (r *BricksResult) Counts() (int, int, int) {
	return r.Total, r.Whole, r.Partial
}

func (r *ComponentsResult) Counts() (int, int, int) {
	return r.Total, r.Whole, r.Partial
}

// LogSummary writes the closing report of a run to fb.
func LogSummary(fb Feedback, workflow string, p Params, r Result) {
	total, whole, partial := r.Counts()
	fb.Infof("%s analysis completed", workflow)
	fb.Infof("components analysed: %d (whole: %d, partial: %d)", total, whole, partial)
	if p.Filter.Active() {
		materials := strings.Join(p.Filter.Types, ", ")
		if p.Filter.IncludeUnclassified {
			materials += " + unclassified"
		}
		fb.Infof("materials: %s", materials)
	} else {
		fb.Infof("materials: all")
	}
	fb.Infof("width step: %gm, height step: %gm", p.WidthStep, p.HeightStep)
	if p.Module > 0 {
		fb.Infof("module: %gm", p.Module)
	}
	for _, t := range r.Tables() {
		fb.Infof("table %s: %d rows", t.Name, len(t.Rows))
	}
}
