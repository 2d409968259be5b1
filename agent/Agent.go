// Package agent defines the interfaces of the policies that drive
// option rollouts
package agent

import (
	"gonum.org/v1/gonum/mat"
)

// Worker is a sub-policy that selects primitive actions for an option.
//
// A single Worker may implement several options; the option argument
// selects which one is queried. The state is the region-local one-hot
// state vector of the agent's current position.
type Worker interface {
	SelectAction(state mat.Vector, option int) int
}

// Learner is a Worker that can be updated with experience.
//
// A Learner and its Worker should share weights so that any changes
// the learner makes are reflected in the actions the Worker chooses.
type Learner interface {
	Worker

	// Update performs a single update to the option's weights on a
	// transition (s, a, r, s', done)
	Update(option int, state mat.Vector, action int, reward float64,
		nextState mat.Vector, done bool)
}
