package rollout

import (
	"fmt"

	"github.com/samuelfneumann/goptions/agent"
	env "github.com/samuelfneumann/goptions/environment"
	"github.com/samuelfneumann/goptions/region"
	ts "github.com/samuelfneumann/goptions/timestep"
)

// Request describes a single option execution
type Request struct {
	Env      env.Environment
	Position ts.Position // agent position in Env
	Worker   agent.Worker
	Option   int // option of Worker to execute
	Task     Task

	// Initial is the region the option starts in, and Target is the
	// region the option is meant to reach
	Initial region.ID
	Target  region.ID
}

// Run executes one option for at most StepLimit primitive steps.
//
// The option terminates when the active task's event fires, or when
// the agent leaves the initial region. Leaving for the target region
// is a Success. Leaving for any other region, including an unmapped
// position, is an Overshoot: the experienced trajectory rewards the
// boundary crossing with BoundaryReward, and an intended copy of it
// penalizes the miss with MissPenalty instead.
//
// Non-terminal transitions carry the environment's reward, except
// once ctx has counted RegionTimeout steps without a region change,
// in which case the reward is TimeoutPenalty and the count restarts.
//
// If the environment returns an error it is returned and the partial
// trajectory is discarded.
func (r *Runner) Run(req Request, ctx *Context) (Result, error) {
	if req.Env == nil || req.Worker == nil {
		panic("run: nil environment or worker")
	}
	if ctx == nil {
		panic("run: nil context")
	}
	if !req.Task.Valid() {
		return Result{}, fmt.Errorf("run: invalid task %v", req.Task)
	}

	state := r.encoder.Encode(req.Position)
	res := Result{
		Outcome:   BudgetExhausted,
		Position:  req.Position,
		EndRegion: req.Initial,
	}

	for res.Steps < r.StepLimit {
		action := r.selectAction(req.Worker, state, req.Option)
		step, envDone, err := req.Env.Step(action)
		if err != nil {
			return Result{}, fmt.Errorf("run: step: %w", err)
		}
		res.Steps++
		res.Position = step.Position
		res.FinalDone = envDone
		ctx.StepsSinceRegionChange++
		current, next := r.observe(step.Position)

		// Task events take precedence over region changes
		if req.Task.completed(req.Env, envDone) {
			res.Transitions = append(res.Transitions,
				ts.NewTransition(state, action, TaskReward, next, true))
			res.TotalReward = TaskReward
			res.Outcome = TaskTerminal
			res.EndRegion = req.Task.Terminal()
			ctx.StepsSinceRegionChange = 0
			return res, nil
		}

		if current != req.Initial {
			// No sub-trajectory starts in the new region, so the
			// state the step was taken from is used as the next state
			boundary := ts.NewTransition(state, action, BoundaryReward, state,
				true)
			res.EndRegion = current
			ctx.StepsSinceRegionChange = 0

			if current == req.Target {
				res.Transitions = append(res.Transitions, boundary)
				res.Outcome = Success
				return res, nil
			}

			res.Intended = append(res.Transitions.Clone(),
				boundary.WithReward(MissPenalty))
			res.Transitions = append(res.Transitions, boundary)
			res.Outcome = Overshoot
			return res, nil
		}

		reward := step.Reward
		if ctx.StepsSinceRegionChange >= r.RegionTimeout {
			reward = TimeoutPenalty
			res.TotalReward = TimeoutPenalty
			ctx.StepsSinceRegionChange = 0
		}
		res.Transitions = append(res.Transitions,
			ts.NewTransition(state, action, reward, next, envDone))
		state = next

		if envDone {
			res.Outcome = Truncated
			return res, nil
		}
	}

	return res, nil
}
