package timestep

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

func TestTrajectoryClone(t *testing.T) {
	s := mat.NewVecDense(2, []float64{1, 0})
	n := mat.NewVecDense(2, []float64{0, 1})
	traj := Trajectory{NewTransition(s, 0, 0, n, false)}

	c := traj.Clone()
	c = append(c, NewTransition(n, 1, 0.8, n, true))
	c[0] = c[0].WithReward(-0.1)

	if len(traj) != 1 {
		t.Fatalf("appending to a clone changed the original length: %d",
			len(traj))
	}
	if traj[0].Reward != 0 {
		t.Errorf("modifying a clone changed the original reward: %v",
			traj[0].Reward)
	}
	if !traj[0].Equal(c[0].WithReward(0)) {
		t.Error("clone should hold the same transitions")
	}

	if Trajectory(nil).Clone() != nil {
		t.Error("clone of a nil trajectory should be nil")
	}
}

func TestTrajectoryReturn(t *testing.T) {
	s := mat.NewVecDense(1, []float64{1})
	traj := Trajectory{
		NewTransition(s, 0, -0.5, s, false),
		NewTransition(s, 2, 0.8, s, true),
	}

	if r := traj.Return(); !scalar.EqualWithinAbs(r, 0.3, 1e-12) {
		t.Errorf("want return 0.3, have %v", r)
	}
	if last := traj.Last(); last.Action != 2 || !last.Done {
		t.Errorf("unexpected last transition %v", last)
	}
}

func TestTrajectoryLastEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("last of an empty trajectory should panic")
		}
	}()
	Trajectory{}.Last()
}

func TestTimeStep(t *testing.T) {
	step := New(First, 0, Position{X: 1, Y: 1}, 0)
	if !step.First() || step.Last() {
		t.Errorf("want first step, have %v", step)
	}

	if p := step.Position.Add(1, -1); p != (Position{X: 2, Y: 0}) {
		t.Errorf("want (2, 0), have %v", p)
	}
}
