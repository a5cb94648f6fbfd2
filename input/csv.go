package input

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"github.com/mensio/brickstat/errors"
)

// ReadCSV decodes a layer from CSV with a header row. The delimiter is a
// comma, or a semicolon when the header has semicolons but no commas.
func ReadCSV(name string, r io.Reader) (Layer, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return Layer{}, err
	}
	header := string(first)
	if i := strings.IndexByte(header, '\n'); i >= 0 {
		header = header[:i]
	}

	cr := csv.NewReader(br)
	if strings.Contains(header, ";") && !strings.Contains(header, ",") {
		cr.Comma = ';'
	}
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return Layer{}, errors.NewData("layer %q: %s", name, err)
	}
	if len(rows) == 0 {
		return Layer{}, errors.NewData("layer %q: missing header row", name)
	}

	l := Layer{Name: name}
	for i, f := range rows[0] {
		f = strings.TrimSpace(f)
		if i == 0 {
			f = strings.TrimPrefix(f, "\ufeff")
		}
		l.Fields = append(l.Fields, f)
	}
	for i, row := range rows[1:] {
		if len(row) > len(l.Fields) {
			return Layer{}, errors.NewData("layer %q row %d: %d cells for %d fields", name, i+1, len(row), len(l.Fields))
		}
		rec := make(Record, len(row))
		for j, cell := range row {
			rec[l.Fields[j]] = cell
		}
		l.Records = append(l.Records, rec)
	}
	return l, nil
}
