package trackers

import (
	"fmt"

	ts "github.com/samuelfneumann/goptions/timestep"
)

// Return tracks and saves the episodic return in an experiment: the sum
// of the total rewards of every rollout in an episode.
//
// Note: An episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// return will not be saved.
type Return struct {
	lastStep       int
	currentReturn  float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker
func NewReturn(filename string) *Return {
	return &Return{lastStep: -1, filename: filename}
}

// Track accumulates the reward of step into the return of the current
// episode. When a Last step is tracked, the episode's return is cached
// and tracking starts over for the next episode.
//
// Track panics if the steps of an episode are tracked out of order
func (r *Return) Track(step ts.TimeStep) {
	if step.Number < r.lastStep {
		panic(fmt.Sprintf("track: timesteps tracked out of order: "+
			"timestep %v --> timestep %v", r.lastStep, step.Number))
	}
	r.currentReturn += step.Reward

	if !step.Last() {
		r.lastStep = step.Number
		return
	}

	r.episodeReturns = append(r.episodeReturns, r.currentReturn)
	r.currentReturn = 0.0
	r.lastStep = -1
}

// Data returns the returns of each completed episode
func (r *Return) Data() []float64 {
	return r.episodeReturns
}

// Save saves the data tracked by the Return Tracker to disk
func (r *Return) Save() error {
	return save(r.filename, r.episodeReturns)
}
