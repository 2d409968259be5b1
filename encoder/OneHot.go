// Package encoder converts global grid positions into the region-local
// one-hot state vectors consumed by sub-policies
package encoder

import (
	"fmt"

	"github.com/samuelfneumann/goptions/region"
	ts "github.com/samuelfneumann/goptions/timestep"
	"gonum.org/v1/gonum/mat"
)

// OneHot encodes a position as a one-hot vector over the local index
// of the position within its containing region. Every region shares
// the same vector space, so the vector only identifies a cell relative
// to whichever region the position lies in.
type OneHot struct {
	regions   *region.Map
	numStates int
}

// New returns a new OneHot encoder producing vectors of length
// numStates, which must be at least the largest region area
func New(m *region.Map, numStates int) (*OneHot, error) {
	if m == nil {
		return nil, fmt.Errorf("new: nil region map")
	}
	if numStates < m.MaxArea() {
		return nil, fmt.Errorf("new: numStates (%d) < largest region "+
			"area (%d)", numStates, m.MaxArea())
	}
	return &OneHot{regions: m, numStates: numStates}, nil
}

// NumStates returns the length of encoded vectors
func (o *OneHot) NumStates() int {
	return o.numStates
}

// Regions returns the region map used for encoding
func (o *OneHot) Regions() *region.Map {
	return o.regions
}

// Encode returns the one-hot state vector of p. If p is not in any
// region the all-zero vector is returned.
func (o *OneHot) Encode(p ts.Position) *mat.VecDense {
	id, _ := o.regions.Locate(p)
	return o.EncodeIn(p, id)
}

// EncodeIn returns the one-hot state vector of p within region id,
// where id is the result of locating p. If id is region.None the
// all-zero vector is returned.
func (o *OneHot) EncodeIn(p ts.Position, id region.ID) *mat.VecDense {
	vec := mat.NewVecDense(o.numStates, nil)
	if id.IsNone() {
		return vec
	}

	index, err := o.regions.LocalIndex(p, id)
	if err != nil {
		panic(fmt.Sprintf("encodeIn: %v", err))
	}
	vec.SetVec(index, 1.0)
	return vec
}

// Decode returns the local index encoded by v, or -1 if v is the
// all-zero vector
func Decode(v mat.Vector) int {
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) != 0.0 {
			return i
		}
	}
	return -1
}
