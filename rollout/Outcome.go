package rollout

import (
	"github.com/samuelfneumann/goptions/region"
	ts "github.com/samuelfneumann/goptions/timestep"
)

// Outcome describes how an option execution ended
type Outcome int

const (
	// BudgetExhausted denotes that StepLimit steps were taken without
	// the option terminating. The caller should keep calling Run.
	BudgetExhausted Outcome = iota

	// Success denotes that the option reached its target region
	Success

	// Overshoot denotes that the option left its initial region for a
	// region other than its target. The Result carries an intended
	// trajectory.
	Overshoot

	// TaskTerminal denotes that the active task's event fired
	TaskTerminal

	// Truncated denotes that the environment ended the episode without
	// the option or the active task terminating
	Truncated
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "Success"
	case Overshoot:
		return "Overshoot"
	case TaskTerminal:
		return "TaskTerminal"
	case Truncated:
		return "Truncated"
	default:
		return "BudgetExhausted"
	}
}

// Context holds the state of an in-progress episode that persists
// between option executions. Each episode, and each environment
// instance, must have its own Context.
type Context struct {
	// StepsSinceRegionChange counts the primitive steps taken since
	// the agent last changed region or completed a task
	StepsSinceRegionChange int
}

// Reset prepares the Context for a new episode
func (c *Context) Reset() {
	c.StepsSinceRegionChange = 0
}

// Result is the result of executing a single option
type Result struct {
	Outcome Outcome

	// Transitions is the trajectory that was actually experienced
	Transitions ts.Trajectory

	// Intended is non-empty only on Overshoot. It equals Transitions
	// except for the reward of its final transition.
	Intended ts.Trajectory

	// TotalReward is the episode-level signal: TaskReward when the
	// task completed, TimeoutPenalty when the region timeout was
	// applied, and zero otherwise
	TotalReward float64

	// Position is the agent's position when the option returned
	Position ts.Position

	// FinalDone reports that the environment's episode is over
	FinalDone bool

	// EndRegion is the region the option ended in. It is the initial
	// region when the budget was exhausted, and a terminal region when
	// the task completed.
	EndRegion region.ID

	// Steps is the number of environment steps taken
	Steps int
}

// Terminated returns whether the option terminated, as opposed to
// running out of budget
func (r Result) Terminated() bool {
	return r.Outcome == Success || r.Outcome == Overshoot ||
		r.Outcome == TaskTerminal
}

// Exploration is the result of a single exploratory rollout
type Exploration struct {
	Transitions ts.Trajectory
	TotalReward float64

	// Initial is the region exploration started in and Next is the
	// region of the last position reached, or a terminal region
	Initial region.ID
	Next    region.ID

	Position  ts.Position
	FinalDone bool
	Steps     int
}
