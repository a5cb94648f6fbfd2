package output

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mensio/brickstat/errors"
	"github.com/mensio/brickstat/schema"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tinylib/msgp/msgp"
)

func testTable(name string) schema.Table {
	t := schema.Table{
		Name: name,
		Columns: []schema.Column{
			{Name: "sample", Kind: schema.KindText},
			{Name: "count", Kind: schema.KindInt},
			{Name: "mean", Kind: schema.KindReal},
		},
	}
	t.Append("C1", int64(2), 0.025)
	t.Append("C2", int64(0), nil)
	return t
}

func TestWriteCSV(t *testing.T) {
	var b bytes.Buffer
	if err := WriteCSV(&b, testTable("samples")); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	exp := "sample,count,mean\nC1,2,0.025\nC2,0,\n"
	if diff := cmp.Diff(exp, b.String()); diff != "" {
		t.Fatalf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSON(t *testing.T) {
	var b bytes.Buffer
	if err := WriteJSON(&b, testTable("samples")); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	exp := `[
  {"sample": "C1", "count": 2, "mean": 0.025},
  {"sample": "C2", "count": 0, "mean": null}
]
`
	if diff := cmp.Diff(exp, b.String()); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}

	b.Reset()
	if err := WriteJSON(&b, schema.Table{Name: "empty"}); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if b.String() != "[]\n" {
		t.Fatalf("expected an empty array, got %q", b.String())
	}
}

func TestWriteMsgp(t *testing.T) {
	var b bytes.Buffer
	if err := WriteMsgp(&b, testTable("samples")); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	r := msgp.NewReader(&b)
	v, err := r.ReadIntf()
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		t.Fatalf("expected a map, got %T", v)
	}
	if m["name"] != "samples" {
		t.Fatalf("expected name samples, got %v", m["name"])
	}
	exp := []interface{}{
		[]interface{}{"C1", int64(2), 0.025},
		[]interface{}{"C2", int64(0), nil},
	}
	if diff := cmp.Diff(exp, m["rows"]); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteDump(t *testing.T) {
	var b bytes.Buffer
	if err := WriteDump(&b, testTable("samples")); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if !bytes.Contains(b.Bytes(), []byte(`Name: (string) (len=7) "samples"`)) {
		t.Fatalf("unexpected dump:\n%s", b.String())
	}
}

func TestWriteAll(t *testing.T) {
	dir, err := ioutil.TempDir("", "brickstat-TestWriteAll")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	Convey("When writing several tables", t, func(c C) {
		tables := []schema.Table{testTable("a"), testTable("b"), testTable("c")}
		paths, err := WriteAll(context.Background(), dir, CSV, tables)
		c.So(err, ShouldBeNil)
		c.So(paths, ShouldResemble, []string{
			filepath.Join(dir, "a.csv"),
			filepath.Join(dir, "b.csv"),
			filepath.Join(dir, "c.csv"),
		})
		data, err := ioutil.ReadFile(paths[1])
		c.So(err, ShouldBeNil)
		c.So(string(data), ShouldStartWith, "sample,count,mean\n")
	})
	Convey("When the format is unknown", t, func(c C) {
		_, err := WriteAll(context.Background(), dir, "xlsx", nil)
		c.So(err, ShouldHaveSameTypeAs, errors.ConfigError(""))
	})
	Convey("When the context is cancelled", t, func(c C) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := WriteAll(ctx, dir, JSON, []schema.Table{testTable("d")})
		c.So(err, ShouldEqual, context.Canceled)
	})
}
