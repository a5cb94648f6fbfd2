package input

import (
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mensio/brickstat/errors"
	"github.com/mensio/brickstat/schema"
	. "github.com/smartystreets/goconvey/convey"
)

const componentsCSV = "fid,tipo,superficie,area_componente,num_componente,width_bbox,height_bbox,campione\n" +
	"1,laterizio,intera,0.02,1,0.25,0.08,C1\n" +
	"2,NULL,parziale,,2.0,0.1,0.05,C1\n"

func TestReadCSV(t *testing.T) {
	Convey("When reading a comma separated survey layer", t, func(c C) {
		l, err := ReadCSV("survey", strings.NewReader(componentsCSV))
		c.So(err, ShouldBeNil)
		c.So(l.Fields, ShouldResemble, []string{"fid", "tipo", "superficie", "area_componente", "num_componente", "width_bbox", "height_bbox", "campione"})
		components, err := l.Components()
		c.So(err, ShouldBeNil)
		c.So(components, ShouldHaveLength, 2)
		c.So(components[0].Type, ShouldEqual, "laterizio")
		c.So(components[0].Classified, ShouldBeTrue)
		c.So(components[0].Width, ShouldEqual, 0.25)
		c.So(components[1].Classified, ShouldBeFalse)
		c.So(components[1].Num, ShouldEqual, 2)
		c.So(math.IsNaN(components[1].Area), ShouldBeTrue)
		c.So(math.IsNaN(components[1].Angle), ShouldBeTrue)
	})
	Convey("When reading a semicolon separated sample layer with decimal commas", t, func(c C) {
		in := "\ufeffcampione;sito;ambiente;usm;area_campione\nC1;S;A1;100;1,25\n"
		l, err := ReadCSV("samples", strings.NewReader(in))
		c.So(err, ShouldBeNil)
		c.So(l.Fields[0], ShouldEqual, "campione")
		samples, err := l.Samples()
		c.So(err, ShouldBeNil)
		c.So(samples, ShouldResemble, []schema.Sample{{Sample: "C1", Site: "S", Room: "A1", Usm: "100", Area: 1.25}})
	})
	Convey("When a cell can't be parsed", t, func(c C) {
		in := "fid,width_bbox\n1,wide\n"
		l, err := ReadCSV("survey", strings.NewReader(in))
		c.So(err, ShouldBeNil)
		_, err = l.Components()
		c.So(err, ShouldHaveSameTypeAs, errors.DataError(""))
		c.So(err.Error(), ShouldContainSubstring, "row 1")
	})
	Convey("When the layer is empty", t, func(c C) {
		_, err := ReadCSV("survey", strings.NewReader(""))
		c.So(err, ShouldNotBeNil)
	})
}

func TestReadJSON(t *testing.T) {
	Convey("When reading an array of objects", t, func(c C) {
		in := `[{"fid": 1, "tipo": "pietra", "width_bbox": 0.3, "campione": null}]`
		l, err := ReadJSON("survey", strings.NewReader(in))
		c.So(err, ShouldBeNil)
		c.So(l.Fields, ShouldResemble, []string{"campione", "fid", "tipo", "width_bbox"})
		components, err := l.Components()
		c.So(err, ShouldBeNil)
		c.So(components[0].Fid, ShouldEqual, 1)
		c.So(components[0].Width, ShouldEqual, 0.3)
		c.So(components[0].Sample, ShouldEqual, "")
	})
	Convey("When reading a FeatureCollection", t, func(c C) {
		in := `{"type": "FeatureCollection", "features": [
			{"type": "Feature", "geometry": null, "properties": {"campione": "C1", "area_campione": 0.5}},
			{"type": "Feature", "geometry": null, "properties": {"campione": "C2", "sito": "S"}}
		]}`
		l, err := ReadJSON("samples", strings.NewReader(in))
		c.So(err, ShouldBeNil)
		c.So(l.Fields, ShouldResemble, []string{"area_campione", "campione", "sito"})
		samples, err := l.Samples()
		c.So(err, ShouldBeNil)
		c.So(samples, ShouldHaveLength, 2)
		c.So(samples[0].Area, ShouldEqual, 0.5)
		c.So(math.IsNaN(samples[1].Area), ShouldBeTrue)
	})
	Convey("When the object isn't a FeatureCollection", t, func(c C) {
		_, err := ReadJSON("samples", strings.NewReader(`{"type": "Feature"}`))
		c.So(err, ShouldHaveSameTypeAs, errors.DataError(""))
	})
}

func TestReadComponentsFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "brickstat-TestReadComponentsFile")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "survey.csv")
	if err := ioutil.WriteFile(path, []byte(componentsCSV), 0644); err != nil {
		t.Fatal(err)
	}
	components, fields, err := ReadComponentsFile(path)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if len(components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(components))
	}
	if diff := cmp.Diff("fid", fields[0]); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	if _, _, err := ReadComponentsFile(filepath.Join(dir, "survey.shp")); err == nil {
		t.Fatalf("expected error for a missing file")
	}
	bad := filepath.Join(dir, "survey.xml")
	if err := ioutil.WriteFile(bad, []byte("<survey/>"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReadComponentsFile(bad); errors.ExitCode(err) != errors.CodeConfig {
		t.Fatalf("expected a config error, got %v", err)
	}
}
