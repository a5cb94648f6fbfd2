// Package output writes result tables to files
package output

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/mensio/brickstat/errors"
	"github.com/mensio/brickstat/schema"
	"github.com/tinylib/msgp/msgp"
	"golang.org/x/sync/errgroup"
)

// Writer writes one table to w.
type Writer func(w io.Writer, t schema.Table) error

// supported formats
const (
	CSV  = "csv"
	JSON = "json"
	Msgp = "msgp"
	Dump = "dump"
)

// Formats lists the supported formats.
var Formats = []string{CSV, JSON, Msgp, Dump}

// Get returns the writer for format, along with the file extension it uses.
func Get(format string) (Writer, string, error) {
	switch format {
	case CSV:
		return WriteCSV, ".csv", nil
	case JSON:
		return WriteJSON, ".json", nil
	case Msgp:
		return WriteMsgp, ".msgp", nil
	case Dump:
		return WriteDump, ".txt", nil
	}
	return nil, "", errors.NewConfig("unknown output format %q. must be one of %v", format, Formats)
}

// Text renders a cell for text formats. null is the empty string.
func Text(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return spew.Sprint(cell)
}

// WriteCSV writes the header and one record per row.
func WriteCSV(w io.Writer, t schema.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, cell := range row {
			record[i] = Text(cell)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the rows as an array of objects, keys in column order.
func WriteJSON(w io.Writer, t schema.Table) error {
	bw := bufio.NewWriter(w)
	keys := make([][]byte, len(t.Columns))
	for i, c := range t.Columns {
		k, err := json.Marshal(c.Name)
		if err != nil {
			return err
		}
		keys[i] = k
	}
	var b bytes.Buffer
	b.WriteString("[")
	for r, row := range t.Rows {
		if r > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n  {")
		for i, cell := range row {
			if i > 0 {
				b.WriteString(", ")
			}
			v, err := json.Marshal(cell)
			if err != nil {
				return err
			}
			b.Write(keys[i])
			b.WriteString(": ")
			b.Write(v)
		}
		b.WriteString("}")
		if _, err := bw.Write(b.Bytes()); err != nil {
			return err
		}
		b.Reset()
	}
	if len(t.Rows) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("]\n")
	if _, err := bw.Write(b.Bytes()); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteMsgp writes the table as a messagepack map with the keys name,
// columns (array of [name, kind]) and rows (array of arrays).
func WriteMsgp(w io.Writer, t schema.Table) error {
	mw := msgp.NewWriterSize(w, 4096)
	if err := mw.WriteMapHeader(3); err != nil {
		return err
	}
	if err := mw.WriteString("name"); err != nil {
		return err
	}
	if err := mw.WriteString(t.Name); err != nil {
		return err
	}
	if err := mw.WriteString("columns"); err != nil {
		return err
	}
	if err := mw.WriteArrayHeader(uint32(len(t.Columns))); err != nil {
		return err
	}
	for _, c := range t.Columns {
		if err := mw.WriteArrayHeader(2); err != nil {
			return err
		}
		if err := mw.WriteString(c.Name); err != nil {
			return err
		}
		if err := mw.WriteString(c.Kind.String()); err != nil {
			return err
		}
	}
	if err := mw.WriteString("rows"); err != nil {
		return err
	}
	if err := mw.WriteArrayHeader(uint32(len(t.Rows))); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := mw.WriteArrayHeader(uint32(len(row))); err != nil {
			return err
		}
		for _, cell := range row {
			if err := mw.WriteIntf(cell); err != nil {
				return err
			}
		}
	}
	return mw.Flush()
}

var dumpConfig = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}

// WriteDump writes a go-spew dump of the table, for debugging.
func WriteDump(w io.Writer, t schema.Table) error {
	dumpConfig.Fdump(w, t)
	return nil
}

// Write writes t to path with writer.
func Write(path string, writer Writer, t schema.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writer(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteAll writes every table to dir, one file per table named after it,
// concurrently. It returns the paths in table order.
func WriteAll(ctx context.Context, dir, format string, tables []schema.Table) ([]string, error) {
	writer, ext, err := Get(format)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	paths := make([]string, len(tables))
	g, ctx := errgroup.WithContext(ctx)
	for i, t := range tables {
		i, t := i, t
		paths[i] = filepath.Join(dir, t.Name+ext)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return Write(paths[i], writer, t)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
