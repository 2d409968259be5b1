// Package timestep implements timesteps of the agent-environment
// interaction in a discretized grid world, as well as the transitions
// that rollouts build from them
package timestep

import (
	"fmt"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType describes why an episode ended
type EndType int

const (
	// Nonterminal denotes that the episode has not ended
	Nonterminal EndType = iota

	// TerminalStateReached denotes that the goal cell was entered
	TerminalStateReached

	// Timeout denotes that the episode step cutoff was reached
	Timeout
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case Timeout:
		return "Timeout"
	default:
		return "Nonterminal"
	}
}

// Position is the (x, y) grid coordinate of the agent
type Position struct {
	X, Y int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Add returns the position offset by (dx, dy)
func (p Position) Add(dx, dy int) Position {
	return Position{p.X + dx, p.Y + dy}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType
	Reward   float64
	Position Position
	Number   int
	endType  EndType
}

// New returns a new TimeStep
func New(t StepType, r float64, p Position, n int) TimeStep {
	return TimeStep{StepType: t, Reward: r, Position: p, Number: n}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd records why the episode ended
func (t *TimeStep) SetEnd(e EndType) {
	t.endType = e
}

// EndType returns why the episode ended, or Nonterminal if it has not
func (t *TimeStep) EndType() EndType {
	return t.endType
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Position: %v  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Position, t.Number)
}
