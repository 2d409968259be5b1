package store

import (
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/goptions/region"
	"github.com/samuelfneumann/goptions/rollout"
	ts "github.com/samuelfneumann/goptions/timestep"
	"gonum.org/v1/gonum/mat"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func trajectory() ts.Trajectory {
	a := mat.NewVecDense(4, []float64{1, 0, 0, 0})
	b := mat.NewVecDense(4, []float64{0, 1, 0, 0})
	return ts.Trajectory{
		ts.NewTransition(a, 1, 0, b, false),
		ts.NewTransition(b, 2, rollout.BoundaryReward, b, true),
	}
}

func TestSaveLoadResult(t *testing.T) {
	s := tempDB(t)

	actual := trajectory()
	res := rollout.Result{
		Outcome:     rollout.Overshoot,
		Transitions: actual,
		Intended: append(actual[:1].Clone(),
			actual[1].WithReward(rollout.MissPenalty)),
		Position:  ts.Position{X: 5, Y: 3},
		EndRegion: region.Region(2),
		Steps:     2,
	}

	id, err := s.SaveResult(3, rollout.OpenDoor, 1, region.Region(0), res)
	if err != nil {
		t.Fatalf("SaveResult: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty rollout ID")
	}

	rec, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.Kind != Option || rec.Episode != 3 || rec.Task != rollout.OpenDoor ||
		rec.Option != 1 {
		t.Errorf("unexpected header %+v", rec)
	}
	if rec.Outcome != "Overshoot" {
		t.Errorf("want Overshoot, have %v", rec.Outcome)
	}
	if rec.Initial != region.Region(0) || rec.End != region.Region(2) {
		t.Errorf("want regions 0 -> 2, have %v -> %v", rec.Initial, rec.End)
	}
	if rec.Position != res.Position || rec.Steps != 2 {
		t.Errorf("want %v after 2 steps, have %v after %d", res.Position,
			rec.Position, rec.Steps)
	}

	if len(rec.Transitions) != 2 || len(rec.Intended) != 2 {
		t.Fatalf("want 2 actual and 2 intended, have %d and %d",
			len(rec.Transitions), len(rec.Intended))
	}
	for i := range actual {
		if !rec.Transitions[i].Equal(actual[i]) {
			t.Errorf("transition %d: want %v, have %v", i, actual[i],
				rec.Transitions[i])
		}
		if !rec.Intended[i].Equal(res.Intended[i]) {
			t.Errorf("intended %d: want %v, have %v", i, res.Intended[i],
				rec.Intended[i])
		}
	}
}

func TestSaveLoadExploration(t *testing.T) {
	s := tempDB(t)

	res := rollout.Exploration{
		Transitions: trajectory(),
		TotalReward: 1,
		Initial:     region.Region(3),
		Next:        region.Goal,
		FinalDone:   true,
		Steps:       2,
	}
	id, err := s.SaveExploration(0, rollout.ReachGoal, res)
	if err != nil {
		t.Fatalf("SaveExploration: %v", err)
	}

	rec, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.Kind != Explore || rec.Option != -1 || rec.Outcome != "" {
		t.Errorf("unexpected header %+v", rec)
	}
	if rec.End != region.Goal || rec.End.Code() != region.GoalCode {
		t.Errorf("want Goal, have %v", rec.End)
	}
	if !rec.FinalDone || rec.TotalReward != 1 {
		t.Errorf("want final done with reward 1, have %v with %v",
			rec.FinalDone, rec.TotalReward)
	}
	if len(rec.Intended) != 0 {
		t.Errorf("exploration has no intended transitions, have %d",
			len(rec.Intended))
	}
}

func TestUnmappedRegionRoundTrip(t *testing.T) {
	s := tempDB(t)
	id, err := s.SaveResult(0, rollout.AcquireKey, 0, region.Region(1),
		rollout.Result{Outcome: rollout.Overshoot, EndRegion: region.None})
	if err != nil {
		t.Fatalf("SaveResult: %v", err)
	}
	rec, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !rec.End.IsNone() {
		t.Errorf("want None, have %v", rec.End)
	}
}

func TestEpisodeAndCount(t *testing.T) {
	s := tempDB(t)

	var want []string
	for i := 0; i < 3; i++ {
		id, err := s.SaveResult(7, rollout.AcquireKey, i, region.Region(0),
			rollout.Result{EndRegion: region.Region(0)})
		if err != nil {
			t.Fatalf("SaveResult: %v", err)
		}
		want = append(want, id)
	}
	if _, err := s.SaveExploration(8, rollout.AcquireKey,
		rollout.Exploration{}); err != nil {
		t.Fatalf("SaveExploration: %v", err)
	}

	ids, err := s.Episode(7)
	if err != nil {
		t.Fatalf("Episode: %v", err)
	}
	if len(ids) != len(want) {
		t.Fatalf("want %d rollouts, have %d", len(want), len(ids))
	}
	for i := range ids {
		if ids[i] != want[i] {
			t.Errorf("rollout %d: want %s, have %s", i, want[i], ids[i])
		}
	}

	counts, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if counts[Option] != 3 || counts[Explore] != 1 {
		t.Errorf("want 3 option and 1 explore rollouts, have %v", counts)
	}
}

func TestLoadMissing(t *testing.T) {
	s := tempDB(t)
	if _, err := s.Load("missing"); err == nil {
		t.Error("want error for missing rollout")
	}
}

func TestLoadCorruptTimestamp(t *testing.T) {
	s := tempDB(t)
	id, err := s.SaveExploration(0, rollout.AcquireKey,
		rollout.Exploration{Transitions: trajectory()})
	if err != nil {
		t.Fatalf("SaveExploration: %v", err)
	}

	if _, err := s.db.Exec(
		`UPDATE rollouts SET created_at = 'yesterday' WHERE rollout_id = ?`,
		id); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := s.Load(id); err == nil {
		t.Error("want error for unparseable created_at")
	}
}
