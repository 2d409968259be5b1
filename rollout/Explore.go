package rollout

import (
	"fmt"

	env "github.com/samuelfneumann/goptions/environment"
	"github.com/samuelfneumann/goptions/region"
	ts "github.com/samuelfneumann/goptions/timestep"
)

// Explore takes at most StepLimit uniform random steps from position p
// in region initial, appending one transition per step. The data is
// used to discover regions and their connectivity.
//
// Each step is checked against three rules in order of precedence:
//
//  1. the environment ended the episode: the reward is TaskReward and
//     the next region is region.Goal
//  2. the active task's key or door event fired: the reward is
//     TaskReward and the next region is the task's terminal region
//  3. the agent left the initial region: the reward is BoundaryReward
//     and the next state is the state the step was taken from, as in
//     Run
//
// Only the first rule that applies is used, and any of them ends the
// rollout. Whenever the total reward has reached SuccessRewardFloor,
// the step's reward is replaced by the total reward.
func (r *Runner) Explore(e env.Environment, p ts.Position, initial region.ID,
	task Task) (Exploration, error) {
	if e == nil {
		panic("explore: nil environment")
	}
	if !task.Valid() {
		return Exploration{}, fmt.Errorf("explore: invalid task %v", task)
	}

	state := r.encoder.Encode(p)
	res := Exploration{
		Initial:  initial,
		Next:     initial,
		Position: p,
	}

	done := false
	for !done && res.Steps < r.StepLimit {
		action := r.randomAction()
		step, envDone, err := e.Step(action)
		if err != nil {
			return Exploration{}, fmt.Errorf("explore: step: %w", err)
		}
		res.Steps++
		res.Position = step.Position

		nextRegion, next := r.observe(step.Position)
		reward := step.Reward
		done = envDone

		switch {
		case envDone:
			res.TotalReward = TaskReward
			res.FinalDone = true
			nextRegion = region.Goal

		case task.completed(e, false):
			res.TotalReward = TaskReward
			nextRegion = task.Terminal()
			done = true

		case nextRegion != initial:
			next = state
			reward = BoundaryReward
			done = true
		}

		if res.TotalReward >= SuccessRewardFloor {
			reward = res.TotalReward
		}

		res.Transitions = append(res.Transitions,
			ts.NewTransition(state, action, reward, next, done))
		res.Next = nextRegion
		state = next
	}

	return res, nil
}
