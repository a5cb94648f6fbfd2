package sqlite

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mensio/brickstat/schema"
	. "github.com/smartystreets/goconvey/convey"
)

func openTemp(t *testing.T) (*Store, func()) {
	dir, err := ioutil.TempDir("", "brickstat-sqlite")
	if err != nil {
		t.Fatal(err)
	}
	s, err := Open(filepath.Join(dir, "runs", "brickstat.db"))
	if err != nil {
		os.RemoveAll(dir)
		t.Fatal(err)
	}
	return s, func() {
		s.Close()
		os.RemoveAll(dir)
	}
}

func rangesTable(withKey bool) schema.Table {
	t := schema.Table{Name: "width_ranges"}
	if withKey {
		t.Columns = append(t.Columns, schema.Column{Name: "sample", Kind: schema.KindText})
	}
	t.Columns = append(t.Columns,
		schema.Column{Name: "width_range", Kind: schema.KindText},
		schema.Column{Name: "count", Kind: schema.KindInt},
	)
	row := []interface{}{"0.248 - 0.252", int64(3)}
	if withKey {
		row = append([]interface{}{"C1"}, row...)
	}
	t.Append(row...)
	return t
}

func TestSaveRun(t *testing.T) {
	s, cleanup := openTemp(t)
	defer cleanup()
	ctx := context.Background()
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	Convey("When saving runs", t, func(c C) {
		run := Run{
			Workflow:   "bricks",
			Profile:    "bricks",
			Digest:     0xfedcba9876543210,
			WidthStep:  0.004,
			HeightStep: 0.002,
			Materials:  "laterizio",
			Started:    started,
			Finished:   started.Add(time.Second),
		}
		id, err := s.SaveRun(ctx, run, []schema.Table{rangesTable(false)})
		c.So(err, ShouldBeNil)
		c.So(id, ShouldEqual, 1)

		// the second run adds the sample column
		id, err = s.SaveRun(ctx, run, []schema.Table{rangesTable(true)})
		c.So(err, ShouldBeNil)
		c.So(id, ShouldEqual, 2)

		runs, err := s.Runs(ctx)
		c.So(err, ShouldBeNil)
		c.So(runs, ShouldHaveLength, 2)
		c.So(runs[0].Digest, ShouldEqual, uint64(0xfedcba9876543210))
		c.So(runs[1].Started.Equal(started), ShouldBeTrue)

		var n int
		err = s.db.QueryRow(`SELECT COUNT(*) FROM "width_ranges" WHERE "sample" IS NULL`).Scan(&n)
		c.So(err, ShouldBeNil)
		c.So(n, ShouldEqual, 1)
		var sample string
		err = s.db.QueryRow(`SELECT "sample" FROM "width_ranges" WHERE run_id = 2`).Scan(&sample)
		c.So(err, ShouldBeNil)
		c.So(sample, ShouldEqual, "C1")
	})

	Convey("When a row doesn't fit its table", t, func(c C) {
		bad := schema.Table{
			Name:    "bad table",
			Columns: []schema.Column{{Name: "v", Kind: schema.KindReal}},
			Rows:    [][]interface{}{{0.1, "extra"}},
		}
		_, err := s.SaveRun(ctx, Run{Workflow: "bricks", Started: started, Finished: started}, []schema.Table{bad})
		c.So(err, ShouldNotBeNil)

		// the run was rolled back with its tables
		runs, err := s.Runs(ctx)
		c.So(err, ShouldBeNil)
		c.So(runs, ShouldHaveLength, 2)
	})
}
