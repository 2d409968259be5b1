package environment

import (
	"fmt"

	"golang.org/x/exp/rand"

	ts "github.com/samuelfneumann/goptions/timestep"
	"gonum.org/v1/gonum/stat/distuv"
)

// CategoricalStarter returns starting positions sampled uniformly from
// a fixed set of candidate cells.
type CategoricalStarter struct {
	cells []ts.Position
	seed  uint64
	rand  distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter sampling
// uniformly from cells
func NewCategoricalStarter(cells []ts.Position,
	seed uint64) (*CategoricalStarter, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("newCategoricalStarter: no starting cells")
	}
	source := rand.NewSource(seed)

	// Create the weights for the uniform categorical distribution
	weights := make([]float64, len(cells))
	for i := range weights {
		weights[i] = 1.0 / float64(len(weights))
	}

	c := &CategoricalStarter{
		cells: append([]ts.Position(nil), cells...),
		seed:  seed,
		rand:  distuv.NewCategorical(weights, source),
	}
	return c, nil
}

// Start returns a starting position
func (c *CategoricalStarter) Start() ts.Position {
	return c.cells[int(c.rand.Rand())]
}

// SingleStart is a Starter that always returns the same position
type SingleStart struct {
	position ts.Position
}

// NewSingleStart returns a Starter that always starts at (x, y)
func NewSingleStart(x, y int) SingleStart {
	return SingleStart{ts.Position{X: x, Y: y}}
}

// Start returns the starting position
func (s SingleStart) Start() ts.Position {
	return s.position
}
