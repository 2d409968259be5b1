package environment

import ts "github.com/samuelfneumann/goptions/timestep"

// FunctionEnder ends an episode whenever a function of the agent's
// position returns true.
type FunctionEnder struct {
	end     func(ts.Position) bool
	endType ts.EndType
}

// NewFunctionEnder returns a new FunctionEnder which ends episodes with
// end type endType when f returns true.
func NewFunctionEnder(f func(ts.Position) bool, endType ts.EndType) Ender {
	return &FunctionEnder{f, endType}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode temrination. If the episode
// should be ended, End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is the appropriate ending
// type.
func (f *FunctionEnder) End(t *ts.TimeStep) bool {
	if f.end(t.Position) {
		t.StepType = ts.Last
		t.SetEnd(f.endType)
		return true
	}
	return false
}

// Enders combines multiple Enders. The first Ender to end the episode
// determines its EndType.
type Enders []Ender

// End implements the Ender interface
func (e Enders) End(t *ts.TimeStep) bool {
	for _, ender := range e {
		if ender.End(t) {
			return true
		}
	}
	return false
}
