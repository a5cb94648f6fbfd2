package survey

import (
	"math"

	"github.com/mensio/brickstat/batch"
	"github.com/mensio/brickstat/bucket"
	"github.com/mensio/brickstat/errors"
	"github.com/mensio/brickstat/schema"
)

// Params configure a workflow run.
type Params struct {
	WidthStep  float64
	HeightStep float64
	// Module is the unit length the dimensions are expressed in
	// (0.296m for the Roman foot). 0 disables the module fields.
	Module float64
	Filter Filter
	Format bucket.Format
}

// Validate checks the steps and the module once, before any measurement
// is processed.
func (p Params) Validate() error {
	if err := bucket.ValidateStep("width", p.WidthStep); err != nil {
		return err
	}
	if err := bucket.ValidateStep("height", p.HeightStep); err != nil {
		return err
	}
	if math.IsNaN(p.Module) || math.IsInf(p.Module, 0) || p.Module < 0 {
		return errors.NewConfig("module must be 0 (disabled) or greater than 0, got %v", p.Module)
	}
	return nil
}

// ModuleFields expresses v in modules: the number of whole modules it
// holds and the remainder, rounded to 3 decimals. Both are null when v is
// absent or module is not positive.
func ModuleFields(v, module float64) (schema.NullInt, schema.NullFloat) {
	if !batch.Present(v) || !(module > 0) {
		return schema.NullInt{}, schema.NullFloat{}
	}
	k := bucket.Floor(v, module)
	return schema.Int(int64(k)), schema.Float(bucket.Round3(v - k*module))
}

func widths(in []schema.Component) []float64 {
	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = c.Width
	}
	return out
}

func heights(in []schema.Component) []float64 {
	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = c.Height
	}
	return out
}

func areas(in []schema.Component) []float64 {
	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = c.Area
	}
	return out
}

func sampleKeys(in []schema.Component) [][]string {
	out := make([][]string, len(in))
	for i, c := range in {
		out[i] = []string{c.Sample}
	}
	return out
}
