package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestExitCode(t *testing.T) {
	Convey("When mapping errors to exit codes", t, func(c C) {
		c.So(ExitCode(nil), ShouldEqual, 0)
		c.So(ExitCode(stderrors.New("boom")), ShouldEqual, CodeInternal)
		c.So(ExitCode(NewConfig("width step must be > 0, got %v", -1.0)), ShouldEqual, CodeConfig)
		c.So(ExitCode(NewData("layer is empty")), ShouldEqual, CodeData)
		c.So(ExitCode(SchemaError{Layer: "survey"}), ShouldEqual, CodeSchema)
	})
	Convey("When the typed error is wrapped", t, func(c C) {
		err := fmt.Errorf("bricks: %w", NewConfig("bad step"))
		c.So(ExitCode(err), ShouldEqual, CodeConfig)
	})
}

func TestSchemaErrorMessage(t *testing.T) {
	err := SchemaError{Layer: "samples", Missing: []string{"usm", "sito"}, Available: []string{"campione"}}
	exp := `layer "samples" lacks mandatory fields: usm, sito (available: campione)`
	if err.Error() != exp {
		t.Fatalf("expected %q, got %q", exp, err.Error())
	}
}
