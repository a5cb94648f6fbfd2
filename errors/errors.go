package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// process exit codes returned by ExitCode
const (
	CodeInternal = 1
	CodeConfig   = 2
	CodeSchema   = 3
	CodeData     = 4
)

// Coder is implemented by errors that know which exit code they map to.
type Coder interface {
	Code() int
}

// ConfigError is an invalid parameter, e.g. a non-positive range step.
// It is raised once, before any measurement is processed.
type ConfigError string

func NewConfig(format string, a ...interface{}) ConfigError {
	return ConfigError(fmt.Sprintf(format, a...))
}

func (c ConfigError) Code() int {
	return CodeConfig
}

func (c ConfigError) Error() string {
	return string(c)
}

// DataError means the input layers can't produce a result,
// e.g. an empty layer or a filter that matched nothing.
type DataError string

func NewData(format string, a ...interface{}) DataError {
	return DataError(fmt.Sprintf(format, a...))
}

func (d DataError) Code() int {
	return CodeData
}

func (d DataError) Error() string {
	return string(d)
}

// SchemaError reports the mandatory fields a layer lacks.
type SchemaError struct {
	Layer     string
	Missing   []string
	Available []string
}

func (s SchemaError) Code() int {
	return CodeSchema
}

func (s SchemaError) Error() string {
	return fmt.Sprintf("layer %q lacks mandatory fields: %s (available: %s)", s.Layer, strings.Join(s.Missing, ", "), strings.Join(s.Available, ", "))
}

// ExitCode returns the exit code for err, looking through wrapped errors.
// nil maps to 0, errors without a Coder to CodeInternal.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var c Coder
	if stderrors.As(err, &c) {
		return c.Code()
	}
	return CodeInternal
}
