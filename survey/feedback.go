package survey

import "context"

// Feedback receives the progress and messages of a workflow run.
type Feedback interface {
	// Step is called when step (1-based) of total starts.
	Step(step, total int, name string)
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Discard is a Feedback that drops everything.
type Discard struct{}

func (Discard) Step(step, total int, name string)        {}
func (Discard) Infof(format string, args ...interface{}) {}
func (Discard) Warnf(format string, args ...interface{}) {}

// stepper announces the steps of one run and checks for cancellation
// before each of them.
type stepper struct {
	ctx   context.Context
	fb    Feedback
	total int
	cur   int
}

func (s *stepper) next(name string) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	s.cur++
	s.fb.Step(s.cur, s.total, name)
	return nil
}
