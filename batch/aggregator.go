// Package batch implements batched processing for slices of measurements
// in particular aggregations
package batch

import (
	"math"
	"sort"
	"strings"

	"github.com/mensio/brickstat/schema"
)

// Absent marks a missing measurement.
var Absent = math.NaN()

// Present reports whether v is a usable measurement.
// NaN and ±Inf are treated as absent.
func Present(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Stats summarizes the present values of one group.
// All numeric fields are null when Count is 0.
type Stats struct {
	Count    int
	Min      schema.NullFloat
	Max      schema.NullFloat
	Range    schema.NullFloat
	Sum      schema.NullFloat
	Mean     schema.NullFloat
	Variance schema.NullFloat
	StdDev   schema.NullFloat
}

// Compute aggregates the present values of in.
// Variance is the population variance (divides by the count).
func Compute(in []float64) Stats {
	var st Stats
	min := math.Inf(1)
	max := math.Inf(-1)
	sum := float64(0)
	for _, v := range in {
		if !Present(v) {
			continue
		}
		st.Count++
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if st.Count == 0 {
		return st
	}

	mean := sum / float64(st.Count)
	sumDeviationsSquared := float64(0)
	for _, v := range in {
		if Present(v) {
			deviation := v - mean
			sumDeviationsSquared += deviation * deviation
		}
	}
	variance := sumDeviationsSquared / float64(st.Count)
	if min == max {
		// mean may carry rounding error when all values are equal
		variance = 0
	}

	st.Min = schema.Float(min)
	st.Max = schema.Float(max)
	st.Range = schema.Float(max - min)
	st.Sum = schema.Float(sum)
	st.Mean = schema.Float(mean)
	st.Variance = schema.Float(variance)
	st.StdDev = schema.Float(math.Sqrt(variance))
	return st
}

// GroupStats is the Stats of the values sharing one key tuple.
type GroupStats struct {
	Key []string
	Stats
}

// ByGroup partitions values by the key tuple at the same index and
// computes Stats per partition. Groups are returned sorted by key tuple.
// A group whose values are all absent is still returned, with Count 0.
func ByGroup(keys [][]string, values []float64) []GroupStats {
	if len(keys) != len(values) {
		panic("batch.ByGroup: keys and values must have the same length")
	}
	index := make(map[string]int)
	var groups []GroupStats
	var members [][]float64
	for i, key := range keys {
		id := JoinKey(key)
		g, ok := index[id]
		if !ok {
			g = len(groups)
			index[id] = g
			groups = append(groups, GroupStats{Key: key})
			members = append(members, nil)
		}
		members[g] = append(members[g], values[i])
	}
	for g := range groups {
		groups[g].Stats = Compute(members[g])
	}
	sort.Slice(groups, func(i, j int) bool {
		return LessKey(groups[i].Key, groups[j].Key)
	})
	return groups
}

// JoinKey renders a key tuple into a map key. The separator can't appear
// in survey attribute values.
func JoinKey(key []string) string {
	return strings.Join(key, "\x00")
}

// LessKey orders key tuples element-wise, shorter tuples first on a tie.
func LessKey(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
