// Package environment outlines the interfaces and structs needed to
// implement grid world environments that options can be rolled out in
package environment

import (
	ts "github.com/samuelfneumann/goptions/timestep"
)

// Primitive actions. Every environment in this module uses the same
// four-direction action set.
const (
	North int = iota
	East
	South
	West

	// NumActions is the number of primitive actions
	NumActions
)

// Starter implements a distribution of starting positions and samples
// starting positions for environments
type Starter interface {
	Start() ts.Position
}

// Ender determines when episodes should be ended
type Ender interface {
	// End returns whether or not the episode should end on the
	// argument timestep. If the episode should end, End also modifies
	// the timestep so that its StepType is timestep.Last and its
	// EndType records why the episode ended.
	End(*ts.TimeStep) bool
}

// Environment implements a simulated grid world that options are
// executed in.
//
// Step takes a primitive action in [0, NumActions) and returns the
// next timestep together with whether the episode is over. Key and
// Door report the task-specific side-channel events observed so far
// in the episode, and are valid immediately after each call to Step.
type Environment interface {
	Reset() (ts.TimeStep, error)
	Step(action int) (ts.TimeStep, bool, error)
	Key() bool
	Door() bool
}

// ValidAction returns whether a is a primitive action
func ValidAction(a int) bool {
	return a >= 0 && a < NumActions
}
