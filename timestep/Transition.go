package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Transition is a single (s, a, r, s', done) tuple produced by a
// rollout. Done reports that the option terminated on this step, not
// that the episode ended.
//
// Transitions are immutable once appended to a Trajectory; the state
// vectors may be shared between consecutive transitions and must not
// be modified in place.
type Transition struct {
	State     *mat.VecDense
	Action    int
	Reward    float64
	NextState *mat.VecDense
	Done      bool
}

// NewTransition constructs a new Transition
func NewTransition(state *mat.VecDense, action int, reward float64,
	nextState *mat.VecDense, done bool) Transition {
	return Transition{
		State:     state,
		Action:    action,
		Reward:    reward,
		NextState: nextState,
		Done:      done,
	}
}

// WithReward returns a copy of the Transition with a different reward
func (t Transition) WithReward(r float64) Transition {
	t.Reward = r
	return t
}

// Equal reports whether two transitions have equal fields
func (t Transition) Equal(o Transition) bool {
	return t.Action == o.Action && t.Reward == o.Reward && t.Done == o.Done &&
		mat.Equal(t.State, o.State) && mat.Equal(t.NextState, o.NextState)
}

func (t Transition) String() string {
	return fmt.Sprintf("Transition | Action: %d  |  Reward: %.2f  |  Done: %v",
		t.Action, t.Reward, t.Done)
}

// Trajectory is an ordered sequence of transitions produced by a
// single option execution
type Trajectory []Transition

// Clone returns a copy of the trajectory that can be appended to
// without affecting the original
func (t Trajectory) Clone() Trajectory {
	if t == nil {
		return nil
	}
	c := make(Trajectory, len(t), len(t)+1)
	copy(c, t)
	return c
}

// Return returns the sum of rewards along the trajectory
func (t Trajectory) Return() float64 {
	var ret float64
	for _, tr := range t {
		ret += tr.Reward
	}
	return ret
}

// Last returns the final transition of the trajectory. It panics if
// the trajectory is empty.
func (t Trajectory) Last() Transition {
	if len(t) == 0 {
		panic("last: empty trajectory")
	}
	return t[len(t)-1]
}
