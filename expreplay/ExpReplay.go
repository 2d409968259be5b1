// Package expreplay implements experience replay buffers holding the
// option-level transitions produced by rollouts
package expreplay

import (
	"fmt"
	"os"

	ts "github.com/samuelfneumann/goptions/timestep"
	"gonum.org/v1/gonum/mat"
)

// Experience is a transition generated while executing an option
type Experience struct {
	Option int
	ts.Transition
}

// Config implements a specific configuration of an ExperienceReplayer
type Config struct {
	SampleMethod      SelectorType
	SampleSize        int
	MaxReplayCapacity int
	MinReplayCapacity int
}

// Create creates and returns the ExperienceReplayer with the specified
// Config.
func (c Config) Create(seed uint64) (ExperienceReplayer, error) {
	sampler, err := CreateSelector(c.SampleMethod, c.SampleSize, seed)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	return New(sampler, c.MinReplayCapacity, c.MaxReplayCapacity)
}

// ExperienceReplayer implements an experience replay buffer
type ExperienceReplayer interface {
	// Add adds an experience to the buffer
	Add(e Experience) error

	// Sample samples a batch of experience from the buffer
	Sample() ([]Experience, error)

	// Capacity returns the current number of samples in the buffer
	Capacity() int

	// MaxCapacity returns the maximum allowable samples in the buffer
	MaxCapacity() int

	// MinCapacity returns the number of samples required to be in
	// the buffer before the buffer can be sampled
	MinCapacity() int

	// BatchSize returns the number of samples returned by Sample()
	BatchSize() int
}

// New creates and returns a new ExperienceReplayer. Data is removed
// from the buffer first-in-first-out once it reaches maxCapacity and
// is sampled by sampler.
func New(sampler Selector, minCapacity,
	maxCapacity int) (ExperienceReplayer, error) {
	if minCapacity <= 0 {
		return nil, fmt.Errorf("new: minCapacity must be > 0")
	}
	if maxCapacity < minCapacity {
		return nil, fmt.Errorf("new: maxCapacity (%v) must be >= "+
			"minCapacity (%v)", maxCapacity, minCapacity)
	}
	if maxCapacity < sampler.BatchSize() {
		return nil, fmt.Errorf("new: cannot have batch size(%v) > max "+
			"buffer capacity (%v)", sampler.BatchSize(), maxCapacity)
	}

	// If minCapacity == maxCapacity == 1, then the replay buffer
	// only stores the most recent transition
	if minCapacity == 1 && maxCapacity == 1 {
		if sampler.BatchSize() > 1 {
			msg := "new: using online sampler, ignoring batch size > 1"
			fmt.Fprintln(os.Stderr, msg)
		}
		return newOnline(), nil
	}

	return newFifoCache(sampler, minCapacity, maxCapacity), nil
}

// AddTrajectory adds each transition of t to r as an experience of
// the argument option
func AddTrajectory(r ExperienceReplayer, option int,
	t ts.Trajectory) error {
	for i := range t {
		if err := r.Add(Experience{Option: option, Transition: t[i]}); err != nil {
			return fmt.Errorf("addTrajectory: %v", err)
		}
	}
	return nil
}

// clone returns a deep copy of e so that buffered experience does not
// alias vectors owned by the caller
func clone(e Experience) Experience {
	out := e
	if e.State != nil {
		out.State = mat.VecDenseCopyOf(e.State)
	}
	if e.NextState != nil {
		out.NextState = mat.VecDenseCopyOf(e.NextState)
	}
	return out
}
