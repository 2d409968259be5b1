// Package rollout executes options and exploratory segments in a grid
// world and converts them into transitions for learning.
//
// A Runner drives a single environment synchronously: every call to
// Run or Explore blocks until its step budget is spent or the rollout
// terminates. A Runner owns its random number generator and is not
// safe for concurrent use. Parallel rollouts need one Runner, one
// environment, and one Context each.
package rollout

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goptions/agent"
	"github.com/samuelfneumann/goptions/encoder"
	env "github.com/samuelfneumann/goptions/environment"
	"github.com/samuelfneumann/goptions/region"
	ts "github.com/samuelfneumann/goptions/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Runner executes options and exploratory rollouts
type Runner struct {
	Config
	encoder *encoder.OneHot
	regions *region.Map

	explore distuv.Bernoulli
	uniform distuv.Categorical
}

// New returns a new Runner encoding states with enc
func New(c Config, enc *encoder.OneHot, seed uint64) (*Runner, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	if enc == nil {
		return nil, fmt.Errorf("new: nil encoder")
	}

	source := rand.NewSource(seed)

	weights := make([]float64, env.NumActions)
	for i := range weights {
		weights[i] = 1.0 / float64(len(weights))
	}

	return &Runner{
		Config:  c,
		encoder: enc,
		regions: enc.Regions(),
		explore: distuv.Bernoulli{P: c.Epsilon, Src: source},
		uniform: distuv.NewCategorical(weights, source),
	}, nil
}

// Encoder returns the state encoder of the Runner
func (r *Runner) Encoder() *encoder.OneHot {
	return r.encoder
}

// randomAction returns a uniform random primitive action
func (r *Runner) randomAction() int {
	return int(r.uniform.Rand())
}

// selectAction returns a uniform random action with probability
// Epsilon, and otherwise the action the worker chooses
func (r *Runner) selectAction(w agent.Worker, state mat.Vector,
	option int) int {
	if r.explore.Rand() == 1.0 {
		return r.randomAction()
	}
	return w.SelectAction(state, option)
}

// observe locates p and encodes it within the region it lies in. An
// unmapped position is in region.None, has the all-zero encoding, and
// is reported once by the region map's logger.
func (r *Runner) observe(p ts.Position) (region.ID, *mat.VecDense) {
	id, err := r.regions.Locate(p)
	if err != nil {
		id = region.None
	}
	return id, r.encoder.EncodeIn(p, id)
}
