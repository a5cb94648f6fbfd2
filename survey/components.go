package survey

import (
	"context"

	"github.com/mensio/brickstat/batch"
	"github.com/mensio/brickstat/errors"
	"github.com/mensio/brickstat/schema"
)

// names of the tables produced by Components
const (
	TableComponentsSurvey       = "component_survey"
	TableComponentsAggregates   = "component_aggregates"
	TableComponentsWidthRanges  = "component_width_ranges"
	TableComponentsHeightRanges = "component_height_ranges"
)

// ComponentFields must be present in the survey layer of a component
// analysis. The surface field is optional.
var ComponentFields = []string{
	schema.FieldFid, schema.FieldType, schema.FieldArea, schema.FieldNum,
	schema.FieldWidth, schema.FieldHeight,
}

const componentsSteps = 6

// Aggregate is one row of the aggregate table.
type Aggregate struct {
	Parameter string
	batch.Stats
}

// parameters of the aggregate table, in order
const (
	ParamWhole   = "whole components"
	ParamPartial = "partial components"
	ParamTotal   = "total components"
	ParamWidth   = "width"
	ParamHeight  = "height"
	ParamArea    = "area"
)

// ComponentsResult is the outcome of a component analysis.
type ComponentsResult struct {
	Total   int
	Whole   int
	Partial int
	// WholeOnly is set when the statistics only cover whole components.
	WholeOnly bool

	Aggregates []Aggregate

	Survey       schema.Table
	AggregateTbl schema.Table
	WidthRanges  schema.Table
	HeightRanges schema.Table
}

func (r *ComponentsResult) Tables() []schema.Table {
	return []schema.Table{r.Survey, r.AggregateTbl, r.WidthRanges, r.HeightRanges}
}

// Components analyses the dimensions of the components of a survey, as a
// whole. When the survey distinguishes whole from partial components and
// has at least one whole one, dimension statistics and range counts use
// whole components only.
func Components(ctx context.Context, components []schema.Component, fields []string, p Params, fb Feedback) (*ComponentsResult, error) {
	st := &stepper{ctx: ctx, fb: fb, total: componentsSteps}

	if err := st.next("validating input"); err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return nil, errors.NewData("the survey layer is empty")
	}
	fb.Infof("survey layer: %d components", len(components))
	if err := schema.ValidateFields("survey", fields, ComponentFields); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	hasSurface := schema.HasField(fields, schema.FieldSurface)
	if !hasSurface {
		fb.Warnf("field %q not found, whole and partial components can't be told apart", schema.FieldSurface)
	}

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
	}

	if err := st.next("separating whole and partial components"); err != nil {
		return nil, err
	}
	res := &ComponentsResult{Total: len(components)}
	measured := components
	if hasSurface {
		whole, partial := Split(components)
		res.Whole, res.Partial = len(whole), len(partial)
		fb.Infof("whole components: %d", res.Whole)
		fb.Infof("partial components: %d", res.Partial)
		if len(whole) > 0 {
			measured = whole
			res.WholeOnly = true
		} else {
			fb.Warnf("no whole component found, statistics cover all components")
		}
	}

	if err := st.next("computing statistics"); err != nil {
		return nil, err
	}
	// the class rows only count components
	var wholeStats, partialStats batch.Stats
	if hasSurface {
		wholeStats.Count, partialStats.Count = res.Whole, res.Partial
	}
	totalStats := batch.Stats{Count: len(components)}
	res.Aggregates = []Aggregate{
		{ParamWhole, wholeStats},
		{ParamPartial, partialStats},
		{ParamTotal, totalStats},
		{ParamWidth, batch.Compute(widths(measured))},
		{ParamHeight, batch.Compute(heights(measured))},
		{ParamArea, batch.Compute(areas(measured))},
	}
	res.AggregateTbl = aggregateTable(res.Aggregates)

	if err := st.next("counting dimension ranges"); err != nil {
		return nil, err
	}
	var err error
	res.WidthRanges, err = rangeTable(TableComponentsWidthRanges, "width_range", nil, widths(measured), p.WidthStep, p.Format, nil)
	if err != nil {
		return nil, err
	}
	res.HeightRanges, err = rangeTable(TableComponentsHeightRanges, "height_range", nil, heights(measured), p.HeightStep, p.Format, nil)
	if err != nil {
		return nil, err
	}

	if err := st.next("building survey table"); err != nil {
		return nil, err
	}
	res.Survey = componentSurveyTable(components, hasSurface, p.Module)
	return res, nil
}

func aggregateTable(aggs []Aggregate) schema.Table {
	t := schema.Table{
		Name:    TableComponentsAggregates,
		Columns: []schema.Column{{Name: "parameter", Kind: schema.KindText}},
	}
	for _, s := range batch.Summary {
		kind := schema.KindReal
		if s == batch.Count {
			kind = schema.KindInt
		}
		t.Columns = append(t.Columns, schema.Column{Name: s.String(), Kind: kind})
	}
	for _, a := range aggs {
		row := []interface{}{a.Parameter}
		for _, s := range batch.Summary {
			row = append(row, s.Cell(a.Stats))
		}
		t.Append(row...)
	}
	return t
}

// field names of the module columns
const (
	FieldWidthModule     = "width_modulo"
	FieldWidthRemainder  = "Δwidth_modulo"
	FieldHeightModule    = "height_modulo"
	FieldHeightRemainder = "Δheight_modulo"
)

func componentSurveyTable(components []schema.Component, hasSurface bool, module float64) schema.Table {
	t := schema.Table{
		Name: TableComponentsSurvey,
		Columns: []schema.Column{
			{Name: schema.FieldFid, Kind: schema.KindInt},
			{Name: schema.FieldUsm, Kind: schema.KindText},
			{Name: schema.FieldNum, Kind: schema.KindInt},
			{Name: schema.FieldType, Kind: schema.KindText},
		},
	}
	if hasSurface {
		t.Columns = append(t.Columns, schema.Column{Name: schema.FieldSurface, Kind: schema.KindText})
	}
	t.Columns = append(t.Columns,
		schema.Column{Name: schema.FieldArea, Kind: schema.KindReal},
		schema.Column{Name: schema.FieldWidth, Kind: schema.KindReal},
		schema.Column{Name: schema.FieldHeight, Kind: schema.KindReal},
		schema.Column{Name: schema.FieldAngle, Kind: schema.KindReal},
		schema.Column{Name: schema.FieldPerimeter, Kind: schema.KindReal},
		schema.Column{Name: schema.FieldBBoxArea, Kind: schema.KindReal},
	)
	withModule := module > 0
	if withModule {
		t.Columns = append(t.Columns,
			schema.Column{Name: FieldWidthModule, Kind: schema.KindInt},
			schema.Column{Name: FieldWidthRemainder, Kind: schema.KindReal},
			schema.Column{Name: FieldHeightModule, Kind: schema.KindInt},
			schema.Column{Name: FieldHeightRemainder, Kind: schema.KindReal},
		)
	}
	for _, c := range components {
		row := []interface{}{c.Fid, c.Usm, c.Num, typeCell(c)}
		if hasSurface {
			row = append(row, c.Surface)
		}
		row = append(row,
			schema.Float(c.Area).Cell(),
			schema.Float(c.Width).Cell(),
			schema.Float(c.Height).Cell(),
			schema.Float(c.Angle).Cell(),
			schema.Float(c.Perimeter).Cell(),
			schema.Float(c.BBoxArea).Cell(),
		)
		if withModule {
			wk, wr := ModuleFields(c.Width, module)
			hk, hr := ModuleFields(c.Height, module)
			row = append(row, wk.Cell(), wr.Cell(), hk.Cell(), hr.Cell())
		}
		t.Append(row...)
	}
	return t
}
