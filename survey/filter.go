package survey

import (
	"fmt"
	"strings"

	"github.com/mensio/brickstat/schema"
)

// ParseMaterials splits a comma separated list of materials,
// trimming blanks and dropping empty entries.
func ParseMaterials(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Filter selects components by material. Matching is case-sensitive.
// A filter without types keeps every component, classified or not.
type Filter struct {
	Types               []string
	IncludeUnclassified bool
}

func (f Filter) Active() bool {
	return len(f.Types) > 0
}

func (f Filter) Match(c schema.Component) bool {
	if !f.Active() {
		return true
	}
	if !c.Classified {
		return f.IncludeUnclassified
	}
	for _, t := range f.Types {
		if c.Type == t {
			return true
		}
	}
	return false
}

func (f Filter) Apply(in []schema.Component) []schema.Component {
	if !f.Active() {
		return in
	}
	out := make([]schema.Component, 0, len(in))
	for _, c := range in {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// Expression renders the filter as an attribute expression, for the log.
// It returns "" for an inactive filter.
func (f Filter) Expression() string {
	if !f.Active() {
		return ""
	}
	quoted := make([]string, len(f.Types))
	for i, t := range f.Types {
		quoted[i] = "'" + strings.Replace(t, "'", "''", -1) + "'"
	}
	var expr string
	if len(quoted) == 1 {
		expr = fmt.Sprintf(`"%s" = %s`, schema.FieldType, quoted[0])
	} else {
		expr = fmt.Sprintf(`"%s" IN (%s)`, schema.FieldType, strings.Join(quoted, ","))
	}
	if f.IncludeUnclassified {
		expr = fmt.Sprintf(`(%s) OR "%s" IS NULL`, expr, schema.FieldType)
	}
	return expr
}

// Split separates whole from partial components. Components with any
// other surface value are in neither.
func Split(in []schema.Component) (whole, partial []schema.Component) {
	for _, c := range in {
		switch {
		case c.Whole():
			whole = append(whole, c)
		case c.Partial():
			partial = append(partial, c)
		}
	}
	return whole, partial
}
