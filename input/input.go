// Package input reads the survey and sample layers from attribute tables
// exported as CSV or JSON
package input

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mensio/brickstat/batch"
	"github.com/mensio/brickstat/errors"
	"github.com/mensio/brickstat/schema"
)

// Null is the cell value some exporters write for a missing attribute.
const Null = "NULL"

// Record is one row of a layer, by field name. A field missing from the
// record or holding "" or Null is absent.
type Record map[string]string

func (r Record) get(field string) (string, bool) {
	v, ok := r[field]
	v = strings.TrimSpace(v)
	if !ok || v == "" || v == Null {
		return "", false
	}
	return v, true
}

// Layer is a decoded attribute table.
type Layer struct {
	Name    string
	Fields  []string
	Records []Record
}

type parser struct {
	layer string
	row   int
	rec   Record
	err   error
}

func (p *parser) fail(field, value string, err error) {
	if p.err == nil {
		p.err = errors.NewData("layer %q row %d: field %s: cannot parse %q: %s", p.layer, p.row, field, value, err)
	}
}

func (p *parser) text(field string) string {
	v, _ := p.rec.get(field)
	return v
}

func (p *parser) real(field string) float64 {
	v, ok := p.rec.get(field)
	if !ok {
		return batch.Absent
	}
	f, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
	if err != nil {
		p.fail(field, v, err)
		return batch.Absent
	}
	return f
}

func (p *parser) integer(field string) int64 {
	v, ok := p.rec.get(field)
	if !ok {
		return 0
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err == nil {
		return i
	}
	// some exporters write integer fields as reals
	f, ferr := strconv.ParseFloat(v, 64)
	if ferr != nil || f != math.Trunc(f) {
		p.fail(field, v, err)
		return 0
	}
	return int64(f)
}

// Components converts the records of a survey layer.
func (l Layer) Components() ([]schema.Component, error) {
	out := make([]schema.Component, 0, len(l.Records))
	p := parser{layer: l.Name}
	for i, rec := range l.Records {
		p.row, p.rec = i+1, rec
		typ, classified := rec.get(schema.FieldType)
		out = append(out, schema.Component{
			Fid:        p.integer(schema.FieldFid),
			Type:       typ,
			Classified: classified,
			Surface:    p.text(schema.FieldSurface),
			Area:       p.real(schema.FieldArea),
			Num:        p.integer(schema.FieldNum),
			Width:      p.real(schema.FieldWidth),
			Height:     p.real(schema.FieldHeight),
			Angle:      p.real(schema.FieldAngle),
			Perimeter:  p.real(schema.FieldPerimeter),
			BBoxArea:   p.real(schema.FieldBBoxArea),
			Sample:     p.text(schema.FieldSample),
			Site:       p.text(schema.FieldSite),
			Room:       p.text(schema.FieldRoom),
			Usm:        p.text(schema.FieldUsm),
		})
		if p.err != nil {
			return nil, p.err
		}
	}
	return out, nil
}

// Samples converts the records of a sample layer.
func (l Layer) Samples() ([]schema.Sample, error) {
	out := make([]schema.Sample, 0, len(l.Records))
	p := parser{layer: l.Name}
	for i, rec := range l.Records {
		p.row, p.rec = i+1, rec
		out = append(out, schema.Sample{
			Sample: p.text(schema.FieldSample),
			Site:   p.text(schema.FieldSite),
			Room:   p.text(schema.FieldRoom),
			Usm:    p.text(schema.FieldUsm),
			Area:   p.real(schema.FieldSampleArea),
		})
		if p.err != nil {
			return nil, p.err
		}
	}
	return out, nil
}

// ReadFile reads a layer from a .csv or .json file.
func ReadFile(path string) (Layer, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layer{}, err
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ReadCSV(name, f)
	case ".json", ".geojson":
		return ReadJSON(name, f)
	}
	return Layer{}, errors.NewConfig("%s: unsupported layer format %q. use .csv or .json", path, filepath.Ext(path))
}

// ReadComponentsFile reads a survey layer, returning its components and fields.
func ReadComponentsFile(path string) ([]schema.Component, []string, error) {
	l, err := ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	c, err := l.Components()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, l.Fields, nil
}

// ReadSamplesFile reads a sample layer, returning its samples and fields.
func ReadSamplesFile(path string) ([]schema.Sample, []string, error) {
	l, err := ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	s, err := l.Samples()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, l.Fields, nil
}
