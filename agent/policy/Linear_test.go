package policy

import (
	"math"
	"testing"

	"github.com/samuelfneumann/goptions/agent"
	"gonum.org/v1/gonum/mat"
)

var _ agent.Learner = &Linear{}

func oneHot(n, i int) *mat.VecDense {
	v := mat.NewVecDense(n, nil)
	v.SetVec(i, 1)
	return v
}

func TestLinearLearnsRewardedAction(t *testing.T) {
	l, err := NewLinear(2, 4, 4, 0.5, 0.9)
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}
	s := oneHot(4, 2)

	if a := l.SelectAction(s, 1); a != 0 {
		t.Fatalf("want tie broken to action 0, have %d", a)
	}

	for i := 0; i < 20; i++ {
		l.Update(1, s, 3, 1.0, s, true)
	}
	if a := l.SelectAction(s, 1); a != 3 {
		t.Errorf("want action 3 after updates, have %d", a)
	}
	if a := l.SelectAction(s, 0); a != 0 {
		t.Errorf("option 0 should be unaffected, have action %d", a)
	}

	q := l.ActionValues(s, 1).AtVec(3)
	if math.Abs(q-1.0) > 1e-4 {
		t.Errorf("want action value near 1, have %v", q)
	}
}

func TestLinearBootstrapsNonTerminal(t *testing.T) {
	l, err := NewLinear(1, 2, 2, 1.0, 0.5)
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}
	s, next := oneHot(2, 0), oneHot(2, 1)

	l.Weights(0).Set(1, 1, 2.0)
	l.Update(0, s, 0, 0.0, next, false)

	if have := l.ActionValues(s, 0).AtVec(0); have != 1.0 {
		t.Errorf("want bootstrapped value 1, have %v", have)
	}
}

func TestNewLinearErrors(t *testing.T) {
	if _, err := NewLinear(0, 4, 4, 0.1, 0.9); err == nil {
		t.Error("want error for zero options")
	}
	if _, err := NewLinear(1, 4, 4, 0, 0.9); err == nil {
		t.Error("want error for zero learning rate")
	}
	if _, err := NewLinear(1, 4, 4, 0.1, 1.5); err == nil {
		t.Error("want error for discount > 1")
	}
}
