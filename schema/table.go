package schema

import "fmt"

// Kind is the storage type of a table column.
type Kind uint8

const (
	KindText Kind = iota
	KindInt
	KindReal
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "TEXT"
	case KindInt:
		return "INTEGER"
	case KindReal:
		return "REAL"
	}
	panic(fmt.Sprintf("Kind.String(): unknown kind %d", k))
}

type Column struct {
	Name string
	Kind Kind
}

// Table is a result table ready to be persisted verbatim.
// Cells are nil (null), int64, float64 or string.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]interface{}
}

// Header returns the column names.
func (t Table) Header() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Append adds a row. It panics when the row doesn't match the columns,
// which is always a programming error.
func (t *Table) Append(row ...interface{}) {
	if len(row) != len(t.Columns) {
		panic(fmt.Sprintf("table %s: row has %d cells, want %d", t.Name, len(row), len(t.Columns)))
	}
	t.Rows = append(t.Rows, row)
}
