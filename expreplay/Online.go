package expreplay

// onlineCache implements an experience replay buffer for sampling
// completely online.
//
// When creating a new experience replay buffer, the user could
// choose to use a buffer with a maximum capacity of 1. In this case,
// experience replay reduces to online sampling.
type onlineCache struct {
	last *Experience
}

// newOnline returns a new online replay buffer
func newOnline() ExperienceReplayer {
	return &onlineCache{}
}

func (o *onlineCache) Add(e Experience) error {
	c := clone(e)
	o.last = &c
	return nil
}

// Sample returns the most recently added experience
func (o *onlineCache) Sample() ([]Experience, error) {
	if o.last == nil {
		return nil, &ExpReplayError{Op: "sample", Err: errEmptyCache}
	}
	return []Experience{*o.last}, nil
}

// Capacity returns the current number of elements in the cache that
// are available for sampling
func (o *onlineCache) Capacity() int {
	if o.last == nil {
		return 0
	}
	return 1
}

// MaxCapacity returns the maximum number of elements that are allowed
// in the cache
func (o *onlineCache) MaxCapacity() int {
	return 1
}

// MinCapacity returns the minimum number of elements required in the
// cache before sampling is allowed
func (o *onlineCache) MinCapacity() int {
	return 1
}

// BatchSize returns the number of samples sampled using Sample() -
// a.k.a the batch size
func (o *onlineCache) BatchSize() int {
	return 1
}
