package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mensio/brickstat/logger"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBar(t *testing.T) {
	cases := []struct {
		step, total, width int
		exp                string
	}{
		{0, 4, 8, "[........] 0/4"},
		{1, 4, 8, "[##......] 1/4"},
		{4, 4, 8, "[########] 4/4"},
		{5, 4, 8, "[########] 4/4"},
		{1, 0, 4, "[####] 1/1"},
	}
	for i, c := range cases {
		if got := Bar(c.step, c.total, c.width); got != c.exp {
			t.Fatalf("case %d: got %q, want %q", i, got, c.exp)
		}
	}
}

func TestLog(t *testing.T) {
	Convey("When reporting to the log", t, func(c C) {
		l, hook := test.NewNullLogger()
		fb := Log{Logger: l}
		fb.Step(2, 8, "joining sample attributes")
		fb.Warnf("no whole component in %s", "C1")

		entries := hook.AllEntries()
		c.So(entries, ShouldHaveLength, 2)
		c.So(entries[0].Message, ShouldEqual, "joining sample attributes")
		c.So(entries[0].Data[logger.StepField], ShouldEqual, 2)
		c.So(entries[0].Data[logger.TotalField], ShouldEqual, 8)
		c.So(entries[1].Level, ShouldEqual, logrus.WarnLevel)
		c.So(entries[1].Message, ShouldEqual, "no whole component in C1")
	})
}

func TestLive(t *testing.T) {
	l, hook := test.NewNullLogger()
	var b bytes.Buffer
	live := NewLive(&b, Log{Logger: l})
	live.Step(1, 2, "validating input")
	live.Warnf("careful")
	live.Stop()

	out := b.String()
	for _, exp := range []string{"1/2 validating input", "finished in", "warning: careful"} {
		if !strings.Contains(out, exp) {
			t.Fatalf("expected %q in output %q", exp, out)
		}
	}
	if len(hook.AllEntries()) != 1 {
		t.Fatalf("expected only the warning to be logged, got %d entries", len(hook.AllEntries()))
	}
}
