package batch

import "fmt"

// Stat names one field of Stats, so tables can pick which aggregates they show.
type Stat int

const (
	Count Stat = iota
	Min
	Max
	Range
	Sum
	Mean
	StdDev
)

// Summary is the column set of a full statistics row.
var Summary = []Stat{Count, Min, Max, Range, Mean, StdDev}

// String provides the column name of the statistic
func (s Stat) String() string {
	switch s {
	case Count:
		return "count"
	case Min:
		return "min"
	case Max:
		return "max"
	case Range:
		return "range"
	case Sum:
		return "sum"
	case Mean:
		return "mean"
	case StdDev:
		return "stddev"
	}
	panic(fmt.Sprintf("Stat.String(): unknown stat %d", s))
}

// Cell returns the statistic of st as a table cell: int64 for Count,
// nil or float64 otherwise.
func (s Stat) Cell(st Stats) interface{} {
	switch s {
	case Count:
		return int64(st.Count)
	case Min:
		return st.Min.Cell()
	case Max:
		return st.Max.Cell()
	case Range:
		return st.Range.Cell()
	case Sum:
		return st.Sum.Cell()
	case Mean:
		return st.Mean.Cell()
	case StdDev:
		return st.StdDev.Cell()
	}
	panic(fmt.Sprintf("Stat.Cell(): unknown stat %d", s))
}
