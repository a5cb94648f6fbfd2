package cmd

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mensio/brickstat/store/sqlite"
	. "github.com/smartystreets/goconvey/convey"
)

const surveyCSV = `fid,tipo,superficie,area_componente,num_componente,width_bbox,height_bbox,campione
1,laterizio,intera,0.02,1,0.25,0.08,C1
2,laterizio,intera,0.03,2,0.26,0.09,C1
3,laterizio,parziale,0.01,3,0.1,0.05,C1
4,pietra,intera,0.04,4,0.3,0.1,C2
`

const samplesCSV = `campione,sito,ambiente,usm,area_campione
C1,S,A1,100,1.0
C2,S,A2,101,0.5
`

func writeFile(t *testing.T, dir, name, data string) string {
	path := filepath.Join(dir, name)
	if err := ioutil.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBricksCommand(t *testing.T) {
	dir, err := ioutil.TempDir("", "brickstat-TestBricksCommand")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	surveyPath := writeFile(t, dir, "survey.csv", surveyCSV)
	samplesPath := writeFile(t, dir, "samples.csv", samplesCSV)
	profilesPath := writeFile(t, dir, "profiles.ini", "[walls]\nwidth-step = 0.01\nheight-step = 0.01\n")
	configPath := writeFile(t, dir, "brickstat.yaml", "log-level: error\n")
	outDir := filepath.Join(dir, "out")
	dbPath := filepath.Join(dir, "brickstat.db")
	metricsPath := filepath.Join(dir, "brickstat.prom")

	Convey("When running the bricks analysis", t, func(c C) {
		rootCmd.SetArgs([]string{
			"bricks",
			"--config", configPath,
			"--survey", surveyPath,
			"--samples", samplesPath,
			"--profiles", profilesPath,
			"--profile", "walls",
			"--materials", "laterizio,pietra",
			"--out", outDir,
			"--format", "json",
			"--sqlite", dbPath,
			"--metrics-file", metricsPath,
		})
		c.So(rootCmd.Execute(), ShouldBeNil)

		for _, name := range []string{"brick_survey", "brick_samples", "brick_width_ranges", "brick_height_ranges"} {
			_, err := os.Stat(filepath.Join(outDir, name+".json"))
			c.So(err, ShouldBeNil)
		}

		db, err := sqlite.Open(dbPath)
		c.So(err, ShouldBeNil)
		defer db.Close()
		runs, err := db.Runs(context.Background())
		c.So(err, ShouldBeNil)
		c.So(runs, ShouldHaveLength, 1)
		c.So(runs[0].Profile, ShouldEqual, "walls")
		c.So(runs[0].WidthStep, ShouldEqual, 0.01)
		c.So(runs[0].Materials, ShouldEqual, "laterizio,pietra")

		metrics, err := ioutil.ReadFile(metricsPath)
		c.So(err, ShouldBeNil)
		c.So(strings.Contains(string(metrics), `brickstat_run_success{workflow="bricks"} 1`), ShouldBeTrue)
	})
}
