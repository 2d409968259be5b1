package expreplay

import (
	"fmt"
	"strings"
)

// fifoCache implements a concrete ExperienceReplayer where elements
// are removed from the buffer in a FiFo manner, a single element at a
// time. Data is held in a ring so that adding never reallocates.
type fifoCache struct {
	data            []Experience
	currentInUsePos int
	isFull          bool

	// Outlines how data is sampled
	sampler Selector

	minCapacity int
	maxCapacity int
}

// newFifoCache returns a new fifoCache. The minCapacity parameter
// determines the minimum number of samples that should be in the buffer
// before sampling is allowed. The maxCapacity parameter determines the
// maximum number of samples allowed in the buffer at any given time.
func newFifoCache(sampler Selector, minCapacity,
	maxCapacity int) *fifoCache {
	return &fifoCache{
		data:        make([]Experience, maxCapacity),
		sampler:     sampler,
		minCapacity: minCapacity,
		maxCapacity: maxCapacity,
	}
}

// String returns the string representation of the fifoCache
func (c *fifoCache) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Capacity: %v/%v\n", c.Capacity(), c.MaxCapacity())
	for _, i := range c.insertOrder(c.Capacity()) {
		fmt.Fprintf(&b, "Option %d: %v\n", c.data[i].Option,
			c.data[i].Transition)
	}
	return b.String()
}

// BatchSize returns the number of samples sampled using Sample() -
// a.k.a the batch size
func (c *fifoCache) BatchSize() int {
	return c.sampler.BatchSize()
}

// insertOrder returns at most n indices of the buffer, from oldest to
// newest
func (c *fifoCache) insertOrder(n int) []int {
	size := c.Capacity()
	if n < size {
		size = n
	}

	start := 0
	if c.isFull {
		start = c.currentInUsePos
	}

	indices := make([]int, size)
	for i := range indices {
		indices[i] = (start + i) % c.maxCapacity
	}
	return indices
}

// Sample samples and returns a batch of experience from the replay
// buffer
func (c *fifoCache) Sample() ([]Experience, error) {
	if c.Capacity() == 0 {
		return nil, &ExpReplayError{Op: "sample", Err: errEmptyCache}
	}
	if c.Capacity() < c.MinCapacity() {
		return nil, &ExpReplayError{Op: "sample", Err: errInsufficientSamples}
	}

	indices := c.sampler.choose(c)
	batch := make([]Experience, len(indices))
	for i, index := range indices {
		batch[i] = c.data[index]
	}
	return batch, nil
}

// Capacity returns the current number of elements in the fifoCache
// that are available for sampling
func (c *fifoCache) Capacity() int {
	if c.isFull {
		return c.MaxCapacity()
	}
	return c.currentInUsePos
}

// MaxCapacity returns the maximum number of elements that are allowed
// in the fifoCache
func (c *fifoCache) MaxCapacity() int {
	return c.maxCapacity
}

// MinCapacity returns the minimum number of elements required in the
// fifoCache before sampling is allowed
func (c *fifoCache) MinCapacity() int {
	return c.minCapacity
}

// Add adds an experience to the fifoCache, overwriting the oldest
// experience if the buffer is full
func (c *fifoCache) Add(e Experience) error {
	if e.State == nil || e.NextState == nil {
		return fmt.Errorf("add: transition is missing a state")
	}
	if e.State.Len() != e.NextState.Len() {
		return fmt.Errorf("add: state sizes differ \n\tstate(%v)"+
			"\n\tnext state(%v)", e.State.Len(), e.NextState.Len())
	}

	index := c.currentInUsePos
	if !c.isFull && index+1 == c.MaxCapacity() {
		c.isFull = true
	}
	c.data[index] = clone(e)

	c.currentInUsePos = (c.currentInUsePos + 1) % c.MaxCapacity()
	return nil
}
