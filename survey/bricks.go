package survey

import (
	"context"
	"math"

	"github.com/mensio/brickstat/batch"
	"github.com/mensio/brickstat/bucket"
	"github.com/mensio/brickstat/errors"
	"github.com/mensio/brickstat/schema"
)

// names of the tables produced by Bricks
const (
	TableBricksSurvey       = "brick_survey"
	TableBricksSamples      = "brick_samples"
	TableBricksWidthRanges  = "brick_width_ranges"
	TableBricksHeightRanges = "brick_height_ranges"
)

var (
	// BrickComponentFields must be present in the survey layer of a brick analysis.
	BrickComponentFields = []string{
		schema.FieldFid, schema.FieldType, schema.FieldSurface, schema.FieldArea, schema.FieldNum,
		schema.FieldWidth, schema.FieldHeight, schema.FieldSample,
	}
	// SampleFields must be present in the sample layer.
	SampleFields = []string{
		schema.FieldSample, schema.FieldSite, schema.FieldRoom, schema.FieldUsm, schema.FieldSampleArea,
	}
)

const bricksSteps = 8

// BricksInput holds the layers of a brick analysis, along with the field
// names their sources declared.
type BricksInput struct {
	Components      []schema.Component
	ComponentFields []string
	Samples         []schema.Sample
	SampleFields    []string
}

// SampleSummary is the brick analysis of one sample area. Counts and sums
// of a component class that doesn't occur in the sample are null.
type SampleSummary struct {
	Sample string `json:"sample"`
	Site   string `json:"site"`
	Room   string `json:"room"`
	Usm    string `json:"usm"`

	Area schema.NullFloat `json:"sample_area"`

	PartialCount schema.NullInt   `json:"partial_count"`
	PartialArea  schema.NullFloat `json:"partial_area"`
	WholeCount   schema.NullInt   `json:"whole_count"`
	WholeArea    schema.NullFloat `json:"whole_area"`
	WholeMean    schema.NullFloat `json:"whole_mean_area"`

	// ComputedWhole is the number of whole bricks the partial ones add up to.
	ComputedWhole   int64            `json:"computed_whole_count"`
	TotalWhole      int64            `json:"total_whole_count"`
	TotalBrickArea  float64          `json:"total_brick_area"`
	TotalMortarArea float64          `json:"total_mortar_area"`
	Ratio           schema.NullFloat `json:"brick_mortar_ratio"`

	Width  batch.Stats `json:"-"`
	Height batch.Stats `json:"-"`
}

// Summarize derives the summary of sample from the statistics of its
// components. A nil Stats means the class has no component in the sample.
func Summarize(sample schema.Sample, wholeArea, partialArea, width, height *batch.Stats) SampleSummary {
	s := SampleSummary{
		Sample: sample.Sample,
		Site:   sample.Site,
		Room:   sample.Room,
		Usm:    sample.Usm,
		Area:   schema.Float(sample.Area),
	}
	if partialArea != nil {
		s.PartialCount = schema.Int(int64(partialArea.Count))
		s.PartialArea = partialArea.Sum
	}
	if wholeArea != nil {
		s.WholeCount = schema.Int(int64(wholeArea.Count))
		s.WholeArea = wholeArea.Sum
		s.WholeMean = wholeArea.Mean
	}
	if width != nil {
		s.Width = *width
	}
	if height != nil {
		s.Height = *height
	}

	if s.WholeMean.Valid && s.WholeMean.Val != 0 && s.PartialArea.Valid {
		s.ComputedWhole = int64(math.Round(s.PartialArea.Val / s.WholeMean.Val))
	}
	s.TotalWhole = s.WholeCount.Or(0) + s.ComputedWhole
	s.TotalBrickArea = bucket.Round3(s.WholeArea.Or(0) + s.PartialArea.Or(0))
	s.TotalMortarArea = bucket.Round3(s.Area.Or(0) - s.TotalBrickArea)
	if s.TotalMortarArea > 0 {
		s.Ratio = schema.Float(math.Round(s.TotalBrickArea/s.TotalMortarArea*100) / 100)
	}
	return s
}

// BricksResult is the outcome of a brick analysis.
type BricksResult struct {
	Total   int
	Whole   int
	Partial int

	Summaries []SampleSummary

	Survey       schema.Table
	Samples      schema.Table
	WidthRanges  schema.Table
	HeightRanges schema.Table
}

func (r *BricksResult) Tables() []schema.Table {
	return []schema.Table{r.Survey, r.Samples, r.WidthRanges, r.HeightRanges}
}

// Bricks analyses the bricks of a masonry survey per sample area.
//
// The components must already carry the bounding box metrics and the key
// of the sample they intersect. Statistics and range counts use whole
// components only; partial ones are converted to an equivalent number of
// whole bricks by area.
func Bricks(ctx context.Context, in BricksInput, p Params, fb Feedback) (*BricksResult, error) {
	st := &stepper{ctx: ctx, fb: fb, total: bricksSteps}

	if err := st.next("validating input"); err != nil {
		return nil, err
	}
	if len(in.Components) == 0 {
		return nil, errors.NewData("the survey layer is empty")
	}
	if len(in.Samples) == 0 {
		return nil, errors.NewData("the sample layer is empty")
	}
	fb.Infof("survey layer: %d components", len(in.Components))
	fb.Infof("sample layer: %d samples", len(in.Samples))
	if err := schema.ValidateFields("survey", in.ComponentFields, BrickComponentFields); err != nil {
		return nil, err
	}
	if err := schema.ValidateFields("samples", in.SampleFields, SampleFields); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := st.next("joining sample attributes"); err != nil {
		return nil, err
	}
	components := joinSamples(in.Components, in.Samples)
	fb.Infof("%d of %d components fall within a sample", countSampled(components), len(components))

	if err := st.next("filtering materials"); err != nil {
		return nil, err
	}
	if p.Filter.Active() {
		fb.Infof("filter expression: %s", p.Filter.Expression())
		components = p.Filter.Apply(components)
		if len(components) == 0 {
			return nil, errors.NewData("the material filter matched no component. check the values: %v", p.Filter.Types)
		}
		fb.Infof("%d components after filter", len(components))
	} else {
		fb.Infof("no material filter, all types included")
	}

	if err := st.next("separating whole and partial components"); err != nil {
		return nil, err
	}
	whole, partial := Split(components)
	fb.Infof("whole components: %d", len(whole))
	fb.Infof("partial components: %d", len(partial))
	if len(whole) == 0 {
		fb.Warnf("no whole component found. statistics may be incomplete")
	}
	if len(partial) == 0 {
		fb.Infof("no partial component found")
	}

	if err := st.next("computing statistics per sample"); err != nil {
		return nil, err
	}
	wholeKeys := sampleKeys(whole)
	wholeArea := indexBySample(batch.ByGroup(wholeKeys, areas(whole)))
	partialArea := indexBySample(batch.ByGroup(sampleKeys(partial), areas(partial)))
	// class counts include components without an area
	countBySample(wholeArea, whole)
	countBySample(partialArea, partial)
	width := indexBySample(batch.ByGroup(wholeKeys, widths(whole)))
	height := indexBySample(batch.ByGroup(wholeKeys, heights(whole)))

	if err := st.next("counting dimension ranges"); err != nil {
		return nil, err
	}
	res := &BricksResult{
		Total:   len(components),
		Whole:   len(whole),
		Partial: len(partial),
	}
	var err error
	res.WidthRanges, err = rangeTable(TableBricksWidthRanges, "width_range", []string{"sample"}, widths(whole), p.WidthStep, p.Format, wholeKeys)
	if err != nil {
		return nil, err
	}
	res.HeightRanges, err = rangeTable(TableBricksHeightRanges, "height_range", []string{"sample"}, heights(whole), p.HeightStep, p.Format, wholeKeys)
	if err != nil {
		return nil, err
	}

	if err := st.next("summarizing samples"); err != nil {
		return nil, err
	}
	for _, s := range in.Samples {
		res.Summaries = append(res.Summaries, Summarize(s, wholeArea[s.Sample], partialArea[s.Sample], width[s.Sample], height[s.Sample]))
	}
	res.Samples = sampleTable(res.Summaries)

	if err := st.next("building survey table"); err != nil {
		return nil, err
	}
	res.Survey = brickSurveyTable(components)
	return res, nil
}

func joinSamples(components []schema.Component, samples []schema.Sample) []schema.Component {
	bySample := make(map[string]schema.Sample, len(samples))
	for _, s := range samples {
		bySample[s.Sample] = s
	}
	out := make([]schema.Component, len(components))
	for i, c := range components {
		if s, ok := bySample[c.Sample]; ok && c.Sample != "" {
			c.Site = s.Site
			c.Room = s.Room
			c.Usm = s.Usm
		}
		out[i] = c
	}
	return out
}

func countSampled(components []schema.Component) int {
	var n int
	for _, c := range components {
		if c.Sample != "" {
			n++
		}
	}
	return n
}

func indexBySample(groups []batch.GroupStats) map[string]*batch.Stats {
	out := make(map[string]*batch.Stats, len(groups))
	for i := range groups {
		out[groups[i].Key[0]] = &groups[i].Stats
	}
	return out
}

func countBySample(stats map[string]*batch.Stats, components []schema.Component) {
	for _, st := range stats {
		st.Count = 0
	}
	for _, c := range components {
		stats[c.Sample].Count++
	}
}

func rangeTable(name, labelColumn string, keyColumns []string, values []float64, step float64, format bucket.Format, keys [][]string) (schema.Table, error) {
	b, err := bucket.New(step, format)
	if err != nil {
		return schema.Table{}, err
	}
	freqs, err := b.Count(values, keys)
	if err != nil {
		return schema.Table{}, err
	}
	return bucket.Table(name, keyColumns, labelColumn, freqs), nil
}

var dimensionStats = []batch.Stat{batch.Min, batch.Max, batch.Range, batch.Mean, batch.StdDev}

func sampleTable(summaries []SampleSummary) schema.Table {
	t := schema.Table{
		Name: TableBricksSamples,
		Columns: []schema.Column{
			{Name: "site", Kind: schema.KindText},
			{Name: "room", Kind: schema.KindText},
			{Name: "usm", Kind: schema.KindText},
			{Name: "sample", Kind: schema.KindText},
			{Name: "sample_area", Kind: schema.KindReal},
			{Name: "whole_count", Kind: schema.KindInt},
			{Name: "whole_area", Kind: schema.KindReal},
			{Name: "whole_mean_area", Kind: schema.KindReal},
			{Name: "partial_count", Kind: schema.KindInt},
			{Name: "partial_area", Kind: schema.KindReal},
			{Name: "computed_whole_count", Kind: schema.KindInt},
			{Name: "total_whole_count", Kind: schema.KindInt},
			{Name: "total_brick_area", Kind: schema.KindReal},
			{Name: "total_mortar_area", Kind: schema.KindReal},
			{Name: "brick_mortar_ratio", Kind: schema.KindReal},
		},
	}
	for _, dim := range []string{"width", "height"} {
		for _, s := range dimensionStats {
			t.Columns = append(t.Columns, schema.Column{Name: dim + "_" + s.String(), Kind: schema.KindReal})
		}
	}
	for _, s := range summaries {
		row := []interface{}{
			s.Site, s.Room, s.Usm, s.Sample,
			s.Area.Cell(),
			s.WholeCount.Cell(), s.WholeArea.Cell(), s.WholeMean.Cell(),
			s.PartialCount.Cell(), s.PartialArea.Cell(),
			s.ComputedWhole, s.TotalWhole,
			s.TotalBrickArea, s.TotalMortarArea, s.Ratio.Cell(),
		}
		for _, dim := range []batch.Stats{s.Width, s.Height} {
			for _, st := range dimensionStats {
				row = append(row, st.Cell(dim))
			}
		}
		t.Append(row...)
	}
	return t
}

func brickSurveyTable(components []schema.Component) schema.Table {
	t := schema.Table{
		Name: TableBricksSurvey,
		Columns: []schema.Column{
			{Name: schema.FieldFid, Kind: schema.KindInt},
			{Name: schema.FieldSite, Kind: schema.KindText},
			{Name: schema.FieldRoom, Kind: schema.KindText},
			{Name: schema.FieldUsm, Kind: schema.KindText},
			{Name: schema.FieldSample, Kind: schema.KindText},
			{Name: schema.FieldNum, Kind: schema.KindInt},
			{Name: schema.FieldType, Kind: schema.KindText},
			{Name: schema.FieldSurface, Kind: schema.KindText},
			{Name: schema.FieldArea, Kind: schema.KindReal},
			{Name: schema.FieldWidth, Kind: schema.KindReal},
			{Name: schema.FieldHeight, Kind: schema.KindReal},
			{Name: schema.FieldAngle, Kind: schema.KindReal},
			{Name: schema.FieldPerimeter, Kind: schema.KindReal},
			{Name: schema.FieldBBoxArea, Kind: schema.KindReal},
		},
	}
	for _, c := range components {
		t.Append(
			c.Fid, c.Site, c.Room, c.Usm, c.Sample, c.Num,
			typeCell(c), c.Surface,
			schema.Float(c.Area).Cell(),
			schema.Float(c.Width).Cell(),
			schema.Float(c.Height).Cell(),
			schema.Float(c.Angle).Cell(),
			schema.Float(c.Perimeter).Cell(),
			schema.Float(c.BBoxArea).Cell(),
		)
	}
	return t
}

// typeCell keeps unclassified components distinguishable from an empty type.
func typeCell(c schema.Component) interface{} {
	if !c.Classified {
		return nil
	}
	return c.Type
}
