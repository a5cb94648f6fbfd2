// Package bucket assigns measurements to fixed-width, half-open ranges
// [k*step, (k+1)*step) and counts how many fall into each range.
package bucket

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/mensio/brickstat/batch"
	"github.com/mensio/brickstat/errors"
	"github.com/mensio/brickstat/schema"
)

// NA is the label of an absent measurement.
const NA = "N/A"

// Separator sits between the lower and upper bound of a label.
const Separator = " - "

// quotients this close below an integer are snapped to it, so that a value
// on a boundary never lands in the bucket below because of division error.
const boundaryEpsilon = 1e-9

// Format controls how bucket bounds are rendered.
type Format int

const (
	// Fixed renders both bounds with exactly 3 decimals: "0.080 - 0.120".
	// Labels then sort lexicographically in numeric order for non-negative
	// bounds of the same integer width.
	Fixed Format = iota
	// Compact renders the shortest decimal of the rounded bound: "0.08 - 0.12".
	Compact
)

func (f Format) String() string {
	switch f {
	case Fixed:
		return "fixed"
	case Compact:
		return "compact"
	}
	panic(fmt.Sprintf("Format.String(): unknown format %d", f))
}

// ParseFormat parses the name of a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "fixed", "":
		return Fixed, nil
	case "compact":
		return Compact, nil
	}
	return 0, errors.NewConfig("unknown label format %q. must be fixed or compact", s)
}

// Floor returns floor(v/step), snapping to the next integer when the
// quotient falls short of it by less than boundaryEpsilon.
func Floor(v, step float64) float64 {
	q := v / step
	k := math.Floor(q)
	if r := math.Round(q); r > k && r-q < boundaryEpsilon {
		return r
	}
	return k
}

// Round3 rounds v to 3 decimals. Negative zero becomes zero.
func Round3(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return 0
	}
	return r
}

// ValidateStep returns a configuration error unless step is a positive,
// finite number. name identifies the step in the message.
func ValidateStep(name string, step float64) error {
	if math.IsNaN(step) || math.IsInf(step, 0) || step <= 0 {
		return errors.NewConfig("%s step must be greater than 0, got %v", name, step)
	}
	return nil
}

// Bucketer labels measurements with the bucket of a given step.
type Bucketer struct {
	step   float64
	format Format
}

// New returns a Bucketer for step, which must be > 0.
func New(step float64, format Format) (*Bucketer, error) {
	if err := ValidateStep("range", step); err != nil {
		return nil, err
	}
	return &Bucketer{step: step, format: format}, nil
}

// Bounds returns the rounded bounds of the bucket holding v.
// ok is false when v is absent.
func (b *Bucketer) Bounds(v float64) (lo, hi float64, ok bool) {
	if !batch.Present(v) {
		return 0, 0, false
	}
	k := Floor(v, b.step)
	return Round3(k * b.step), Round3((k + 1) * b.step), true
}

// Label returns "lo - hi" for the bucket holding v, or NA.
func (b *Bucketer) Label(v float64) string {
	lo, hi, ok := b.Bounds(v)
	if !ok {
		return NA
	}
	return b.render(lo) + Separator + b.render(hi)
}

func (b *Bucketer) render(v float64) string {
	if b.format == Compact {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// Label returns the Fixed label of v for step. step must be > 0;
// callers validate it once with ValidateStep before labelling values.
func Label(v, step float64) string {
	b := Bucketer{step: step, format: Fixed}
	return b.Label(v)
}

// Frequency is the number of measurements of one group in one bucket.
type Frequency struct {
	Keys  []string
	Label string
	Count int
}

// Count labels every value, groups by (keys..., label) and counts the
// members of each group. keys is either nil (no grouping) or holds one key
// tuple per value. Only observed buckets are returned, sorted by label
// string and then by key tuple, so the output doesn't depend on input order.
func (b *Bucketer) Count(values []float64, keys [][]string) ([]Frequency, error) {
	if keys != nil && len(keys) != len(values) {
		return nil, fmt.Errorf("bucket: got %d key tuples for %d values", len(keys), len(values))
	}
	index := make(map[string]int)
	var out []Frequency
	for i, v := range values {
		var key []string
		if keys != nil {
			key = keys[i]
		}
		label := b.Label(v)
		id := batch.JoinKey(append(append([]string{}, key...), label))
		if f, ok := index[id]; ok {
			out[f].Count++
			continue
		}
		index[id] = len(out)
		out = append(out, Frequency{Keys: key, Label: label, Count: 1})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return batch.LessKey(out[i].Keys, out[j].Keys)
	})
	return out, nil
}

// CountByBucket is Count with a Fixed-format Bucketer for step.
func CountByBucket(values []float64, step float64, keys [][]string) ([]Frequency, error) {
	b, err := New(step, Fixed)
	if err != nil {
		return nil, err
	}
	return b.Count(values, keys)
}

// Table lays out frequencies as a result table with the columns
// keyColumns..., labelColumn, count.
func Table(name string, keyColumns []string, labelColumn string, freqs []Frequency) schema.Table {
	t := schema.Table{Name: name}
	for _, k := range keyColumns {
		t.Columns = append(t.Columns, schema.Column{Name: k, Kind: schema.KindText})
	}
	t.Columns = append(t.Columns,
		schema.Column{Name: labelColumn, Kind: schema.KindText},
		schema.Column{Name: "count", Kind: schema.KindInt},
	)
	for _, f := range freqs {
		row := make([]interface{}, 0, len(t.Columns))
		for i := range keyColumns {
			var k string
			if i < len(f.Keys) {
				k = f.Keys[i]
			}
			row = append(row, k)
		}
		row = append(row, f.Label, int64(f.Count))
		t.Append(row...)
	}
	return t
}
