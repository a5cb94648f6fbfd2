// Package logger provides the TextFormatter used by the brickstat commands
// with the github.com/sirupsen/logrus library.
package logger

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultTimestampFormat = "2006-01-02 15:04:05.000"

// StepField and TotalField are the entry fields a workflow sets to report
// its progress. When both are present they render as a "(step/total)" prefix
// instead of regular key=value pairs.
const (
	StepField  = "step"
	TotalField = "total"
)

// TextFormatter renders entries as
//
//	<timestamp> [LEVEL] [module] (step/total) message key=value ...
type TextFormatter struct {
	// Disable timestamp logging. useful when output is redirected to logging
	// system that already adds timestamps
	DisableTimestamp bool

	// Timestamp format to use for display when a full timestamp is printed
	TimestampFormat string

	// The name of the module (bricks, components, ...),
	// prints before the log message, doesn't print if empty
	ModuleName string
}

// Format renders a single log entry.
// It is meant to be called from github.com/sirupsen/logrus.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k == StepField || k == TotalField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if !f.DisableTimestamp {
		format := f.TimestampFormat
		if format == "" {
			format = defaultTimestampFormat
		}
		b.WriteString(entry.Time.Format(format))
		b.WriteByte(' ')
	}

	b.WriteByte('[')
	b.WriteString(strings.ToUpper(entry.Level.String()))
	b.WriteString("] ")

	if f.ModuleName != "" {
		b.WriteByte('[')
		b.WriteString(f.ModuleName)
		b.WriteString("] ")
	}

	step, okStep := entry.Data[StepField]
	total, okTotal := entry.Data[TotalField]
	if okStep && okTotal {
		fmt.Fprintf(b, "(%v/%v) ", step, total)
	}

	b.WriteString(entry.Message)
	for _, key := range keys {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		appendValue(b, entry.Data[key])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func needsQuoting(text string) bool {
	if len(text) == 0 {
		return true
	}
	for _, ch := range text {
		if !((ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') ||
			ch == '-' || ch == '.' || ch == '_') {
			return true
		}
	}
	return false
}

func appendValue(b *bytes.Buffer, value interface{}) {
	var text string
	switch value := value.(type) {
	case string:
		text = value
	case error:
		text = value.Error()
	case time.Duration:
		text = value.String()
	default:
		fmt.Fprint(b, value)
		return
	}
	if needsQuoting(text) {
		fmt.Fprintf(b, "%q", text)
		return
	}
	b.WriteString(text)
}

// Setup installs a TextFormatter for module on the standard logrus logger
// and sets its level.
func Setup(module, level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log-level, %s", err.Error())
	}
	logrus.SetFormatter(&TextFormatter{ModuleName: module})
	logrus.SetLevel(lvl)
	return nil
}
