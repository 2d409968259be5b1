package rollout

import (
	"fmt"

	env "github.com/samuelfneumann/goptions/environment"
	"github.com/samuelfneumann/goptions/region"
)

// Task is the objective an episode is currently pursuing. Any option
// is cut short when the active task's event fires.
type Task int

const (
	AcquireKey Task = iota
	OpenDoor
	ReachGoal
)

// Terminal returns the virtual region that denotes completion of the
// task
func (t Task) Terminal() region.ID {
	switch t {
	case AcquireKey:
		return region.Key
	case OpenDoor:
		return region.Door
	default:
		return region.Goal
	}
}

// Next returns the task that follows t. The boolean is false once the
// final task has been reached.
func (t Task) Next() (Task, bool) {
	if t >= ReachGoal {
		return ReachGoal, false
	}
	return t + 1, true
}

// Valid returns whether t is a known task
func (t Task) Valid() bool {
	return t >= AcquireKey && t <= ReachGoal
}

// completed returns whether the task's event fired on the most recent
// environment step
func (t Task) completed(e env.Environment, envDone bool) bool {
	switch t {
	case AcquireKey:
		return e.Key()
	case OpenDoor:
		return e.Door()
	case ReachGoal:
		return envDone
	}
	return false
}

func (t Task) String() string {
	switch t {
	case AcquireKey:
		return "AcquireKey"
	case OpenDoor:
		return "OpenDoor"
	case ReachGoal:
		return "ReachGoal"
	}
	return fmt.Sprintf("Task(%d)", int(t))
}
