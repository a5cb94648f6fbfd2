package stats

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mensio/brickstat/schema"
	"github.com/mensio/brickstat/survey"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeResult struct{}

func (fakeResult) Tables() []schema.Table {
	return []schema.Table{{Name: "brick_samples", Rows: make([][]interface{}, 4)}}
}

func (fakeResult) Counts() (int, int, int) {
	return 10, 7, 3
}

func TestRun(t *testing.T) {
	Convey("When a run completes", t, func(c C) {
		r := NewRun("bricks")
		fb := r.Wrap(survey.Discard{})
		fb.Step(1, 2, "a")
		fb.Step(2, 2, "b")
		fb.Warnf("careful")
		fb.Infof("fine")
		r.Done(fakeResult{}, nil)

		c.So(testutil.ToFloat64(r.steps), ShouldEqual, 2)
		c.So(testutil.ToFloat64(r.warnings), ShouldEqual, 1)
		c.So(testutil.ToFloat64(r.success), ShouldEqual, 1)
		c.So(testutil.ToFloat64(r.components.WithLabelValues("whole")), ShouldEqual, 7)
		c.So(testutil.ToFloat64(r.rows.WithLabelValues("brick_samples")), ShouldEqual, 4)
	})
	Convey("When a run fails", t, func(c C) {
		r := NewRun("components")
		r.Done(nil, errors.New("boom"))
		c.So(testutil.ToFloat64(r.success), ShouldEqual, 0)
	})
}

func TestWriteTextfile(t *testing.T) {
	dir, err := ioutil.TempDir("", "brickstat-TestWriteTextfile")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	r := NewRun("bricks")
	r.Done(fakeResult{}, nil)
	path := filepath.Join(dir, "brickstat.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	exp := `brickstat_components{class="partial",workflow="bricks"} 3`
	if !strings.Contains(string(data), exp) {
		t.Fatalf("expected %q in:\n%s", exp, data)
	}
}
