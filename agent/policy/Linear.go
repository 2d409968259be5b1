// Package policy implements multi-option sub-policies using linear
// function approximation
package policy

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Linear implements a greedy multi-option worker. Each option has its
// own weight matrix with one row per action, and the action values of
// a state are the weights multiplied by the state vector. Linear
// learns its weights with the Q-Learning update.
//
// Exploration is the responsibility of the caller: rollouts blend
// random actions into the worker's greedy choice.
type Linear struct {
	weights      []*mat.Dense
	learningRate float64
	discount     float64
}

// NewLinear returns a new Linear worker with options options over
// state vectors of length features and actions actions. Weights are
// initialized to zero.
func NewLinear(options, features, actions int, learningRate,
	discount float64) (*Linear, error) {
	if options < 1 || features < 1 || actions < 1 {
		return nil, fmt.Errorf("newLinear: options (%d), features (%d), "+
			"and actions (%d) must be positive", options, features, actions)
	}
	if learningRate <= 0 {
		return nil, fmt.Errorf("newLinear: learning rate must be positive")
	}
	if discount < 0 || discount > 1 {
		return nil, fmt.Errorf("newLinear: discount must be in [0, 1]")
	}

	weights := make([]*mat.Dense, options)
	for i := range weights {
		weights[i] = mat.NewDense(actions, features, nil)
	}

	return &Linear{
		weights:      weights,
		learningRate: learningRate,
		discount:     discount,
	}, nil
}

// Options returns the number of options the worker implements
func (l *Linear) Options() int {
	return len(l.weights)
}

// Weights returns the weights of an option. The returned matrix is
// shared with the worker.
func (l *Linear) Weights(option int) *mat.Dense {
	return l.weights[option]
}

// ActionValues returns the action values of an option in a state
func (l *Linear) ActionValues(state mat.Vector, option int) *mat.VecDense {
	w := l.weights[option]
	numActions, _ := w.Dims()

	actionValues := mat.NewVecDense(numActions, nil)
	actionValues.MulVec(w, state)
	return actionValues
}

// SelectAction returns the greedy action of an option. Ties are broken
// in favour of the lowest action.
func (l *Linear) SelectAction(state mat.Vector, option int) int {
	actionValues := l.ActionValues(state, option)

	max, idx := actionValues.AtVec(0), 0
	for i := 1; i < actionValues.Len(); i++ {
		if actionValues.AtVec(i) > max {
			max = actionValues.AtVec(i)
			idx = i
		}
	}
	return idx
}

// Update performs a Q-Learning update of an option's weights
func (l *Linear) Update(option int, state mat.Vector, action int,
	reward float64, nextState mat.Vector, done bool) {
	w := l.weights[option]

	// Create the update target
	target := reward
	if !done {
		target += l.discount * mat.Max(l.ActionValues(nextState, option))
	}

	// Find the current estimate of the taken action
	row := w.RowView(action)
	currentEstimate := mat.Dot(row, state)

	// Perform gradient descent: ∇weights = scale * state
	scale := l.learningRate * (target - currentEstimate)
	newWeights := mat.NewVecDense(row.Len(), nil)
	newWeights.AddScaledVec(row, scale, state)
	w.SetRow(action, newWeights.RawVector().Data)
}
