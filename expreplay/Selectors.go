package expreplay

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// SelectorType determines how data is sampled from a buffer
type SelectorType string

const (
	Uniform SelectorType = "Uniform"
	Fifo    SelectorType = "Fifo"
)

// CreateSelector returns a new Selector of the argument type
func CreateSelector(t SelectorType, samples int,
	seed uint64) (Selector, error) {
	if samples < 1 {
		return nil, fmt.Errorf("createSelector: samples must be >= 1")
	}

	switch t {
	case Uniform:
		return NewUniformSelector(samples, seed), nil
	case Fifo:
		return NewFifoSelector(samples), nil
	}
	return nil, fmt.Errorf("createSelector: no such selector %v", t)
}

// Selector implements functionality for choosing how data should be
// sampled from an experience replay buffer
type Selector interface {
	// choose selects the indices at which data should be sampled from
	// the experience replay buffer
	choose(c *fifoCache) []int

	// BatchSize returns the number of elements that will be selected
	BatchSize() int
}

// uniformSelector is a Selector which selects data from an experience
// replay buffer uniformly randomly, with replacement
type uniformSelector struct {
	samples int
	rng     *rand.Rand
}

// NewUniformSelector returns a new Selector which selects data uniformly
// randomly from an experience replay buffer
func NewUniformSelector(samples int, seed uint64) Selector {
	rng := rand.New(rand.NewSource(seed))
	return &uniformSelector{samples: samples, rng: rng}
}

// BatchSize gets the number of samples in a batch drawn from the buffer
func (u *uniformSelector) BatchSize() int {
	return u.samples
}

// choose selects a number of indices at which to draw data from the
// buffer
func (u *uniformSelector) choose(c *fifoCache) []int {
	selected := make([]int, u.BatchSize())
	for i := range selected {
		selected[i] = u.rng.Intn(c.Capacity())
	}
	return selected
}

// fifoSelector is a Selector which selects the oldest data in an
// experience replay buffer
type fifoSelector struct {
	samples int
}

// NewFifoSelector returns a new Selector which draws data from an
// experience replay buffer in as FiFo.
func NewFifoSelector(samples int) Selector {
	return &fifoSelector{samples: samples}
}

// BatchSize gets the number of samples in a batch drawn from the buffer
func (f *fifoSelector) BatchSize() int {
	return f.samples
}

// choose selects a number of indices at which to draw data from the
// buffer
func (f *fifoSelector) choose(c *fifoCache) []int {
	return c.insertOrder(f.BatchSize())
}
