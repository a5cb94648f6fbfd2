// Package progress reports the progress of a workflow run, either to the
// log or live on a terminal
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gosuri/uilive"
	"github.com/mensio/brickstat/logger"
	"github.com/sirupsen/logrus"
)

// Log reports to a logrus logger. Steps are logged at info level with the
// step and total fields, which logger.TextFormatter renders as a prefix.
type Log struct {
	Logger logrus.FieldLogger
}

func NewLog() Log {
	return Log{Logger: logrus.StandardLogger()}
}

func (l Log) Step(step, total int, name string) {
	l.Logger.WithFields(logrus.Fields{
		logger.StepField:  step,
		logger.TotalField: total,
	}).Info(name)
}

func (l Log) Infof(format string, args ...interface{}) {
	l.Logger.Infof(format, args...)
}

func (l Log) Warnf(format string, args ...interface{}) {
	l.Logger.Warnf(format, args...)
}

// Live redraws a progress bar of the current step in place, and passes
// messages on to Next. Warnings are kept and printed again by Stop.
type Live struct {
	sync.Mutex
	Next  Log
	out   *uilive.Writer
	start time.Time
	warns []string
}

const barWidth = 30

// NewLive starts a live display on w.
func NewLive(w io.Writer, next Log) *Live {
	out := uilive.New()
	out.Out = w
	out.Start()
	return &Live{Next: next, out: out, start: time.Now()}
}

func (l *Live) Step(step, total int, name string) {
	l.Lock()
	defer l.Unlock()
	l.Next.Logger.WithFields(logrus.Fields{
		logger.StepField:  step,
		logger.TotalField: total,
	}).Debug(name)
	fmt.Fprintln(l.out, Bar(step, total, barWidth)+" "+name)
}

func (l *Live) Infof(format string, args ...interface{}) {
	l.Next.Infof(format, args...)
}

func (l *Live) Warnf(format string, args ...interface{}) {
	l.Lock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
	l.Unlock()
	l.Next.Warnf(format, args...)
}

// Stop ends the display with the elapsed time and the warnings raised.
func (l *Live) Stop() {
	l.Lock()
	defer l.Unlock()
	fmt.Fprintf(l.out, "finished in %v\n", time.Since(l.start).Round(time.Millisecond))
	for _, w := range l.warns {
		fmt.Fprintf(l.out.Bypass(), "warning: %s\n", w)
	}
	l.out.Stop()
}

// Bar renders step of total as a bar of width cells.
func Bar(step, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if step > total {
		step = total
	}
	done := width * step / total
	return fmt.Sprintf("[%s%s] %d/%d", strings.Repeat("#", done), strings.Repeat(".", width-done), step, total)
}
