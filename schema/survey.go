// Package schema describes the survey layers brickstat reads and the
// result tables it produces.
package schema

import "github.com/mensio/brickstat/errors"

// field names of the survey (component) layer
const (
	FieldFid       = "fid"
	FieldType      = "tipo"
	FieldSurface   = "superficie"
	FieldArea      = "area_componente"
	FieldNum       = "num_componente"
	FieldWidth     = "width_bbox"
	FieldHeight    = "height_bbox"
	FieldAngle     = "angle_bbox"
	FieldPerimeter = "perimeter_bbox"
	FieldBBoxArea  = "area_bbox"
)

// field names of the sample layer. The survey layer carries FieldSample
// (and optionally the others) once it has been joined against the samples.
const (
	FieldSample     = "campione"
	FieldSite       = "sito"
	FieldRoom       = "ambiente"
	FieldUsm        = "usm"
	FieldSampleArea = "area_campione"
)

// values of FieldSurface
const (
	SurfaceWhole   = "intera"
	SurfacePartial = "parziale"
)

// Component is one polygon of the survey layer together with the metrics
// of its oriented minimum bounding box. Absent measurements are NaN.
type Component struct {
	Fid int64
	// Type is the material. Classified is false when the source had no value.
	Type       string
	Classified bool
	Surface    string
	Area       float64
	Num        int64

	Width     float64
	Height    float64
	Angle     float64
	Perimeter float64
	BBoxArea  float64

	Sample string
	Site   string
	Room   string
	Usm    string
}

// Whole reports whether the component is entirely visible in the survey.
func (c Component) Whole() bool {
	return c.Surface == SurfaceWhole
}

// Partial reports whether the component is only partially visible.
func (c Component) Partial() bool {
	return c.Surface == SurfacePartial
}

// Sample is one sampling area of a masonry wall.
type Sample struct {
	Sample string
	Site   string
	Room   string
	Usm    string
	Area   float64
}

// ValidateFields checks that have contains every field of required.
// The error lists the missing fields along with the available ones.
func ValidateFields(layer string, have, required []string) error {
	set := make(map[string]struct{}, len(have))
	for _, f := range have {
		set[f] = struct{}{}
	}
	var missing []string
	for _, f := range required {
		if _, ok := set[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return errors.SchemaError{
		Layer:     layer,
		Missing:   missing,
		Available: have,
	}
}

// HasField reports whether fields contains name.
func HasField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}
