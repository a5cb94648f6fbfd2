package schema

import (
	"database/sql/driver"
	"math"
	"strconv"
)

// NullFloat is a float that may be absent ("not computable").
// An absent value is never rendered as zero or NaN.
type NullFloat struct {
	Val   float64
	Valid bool
}

// Float wraps v. Non-finite values are absent.
func Float(v float64) NullFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NullFloat{}
	}
	return NullFloat{Val: v, Valid: true}
}

// Or returns the value, or def when absent (COALESCE).
func (n NullFloat) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Val
}

// Cell returns the value as a table cell: nil or float64.
func (n NullFloat) Cell() interface{} {
	if !n.Valid {
		return nil
	}
	return n.Val
}

func (n NullFloat) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Val, 'f', -1, 64)
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, n.Val, 'f', -1, 64), nil
}

func (n NullFloat) Value() (driver.Value, error) {
	return n.Cell(), nil
}

// NullInt is an integer that may be absent, e.g. a count that came from a
// group which has no rows at all.
type NullInt struct {
	Val   int64
	Valid bool
}

func Int(v int64) NullInt {
	return NullInt{Val: v, Valid: true}
}

func (n NullInt) Or(def int64) int64 {
	if !n.Valid {
		return def
	}
	return n.Val
}

// Cell returns the value as a table cell: nil or int64.
func (n NullInt) Cell() interface{} {
	if !n.Valid {
		return nil
	}
	return n.Val
}

func (n NullInt) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatInt(n.Val, 10)
}

func (n NullInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, n.Val, 10), nil
}

func (n NullInt) Value() (driver.Value, error) {
	return n.Cell(), nil
}
