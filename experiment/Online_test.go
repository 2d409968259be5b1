package experiment

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/goptions/agent/policy"
	"github.com/samuelfneumann/goptions/encoder"
	env "github.com/samuelfneumann/goptions/environment"
	"github.com/samuelfneumann/goptions/environment/gridworld"
	"github.com/samuelfneumann/goptions/experiment/trackers"
	"github.com/samuelfneumann/goptions/expreplay"
	"github.com/samuelfneumann/goptions/qtable"
	"github.com/samuelfneumann/goptions/region"
	"github.com/samuelfneumann/goptions/rollout"
	"github.com/samuelfneumann/goptions/store"
)

const size = 8

func newOnline(t *testing.T, c Config,
	tr ...trackers.Tracker) *Online {
	t.Helper()

	layout, err := gridworld.KeyDoor(size)
	if err != nil {
		t.Fatalf("KeyDoor: %v", err)
	}
	goal, err := gridworld.NewGoal(size-2, size-2, 4*size*size)
	if err != nil {
		t.Fatalf("NewGoal: %v", err)
	}
	g, _, err := gridworld.New(layout, goal, env.NewSingleStart(1, 1), 0)
	if err != nil {
		t.Fatalf("gridworld.New: %v", err)
	}

	m, err := region.NewMap(gridworld.KeyDoorRegions(size)...)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	enc, err := encoder.New(m, m.MaxArea())
	if err != nil {
		t.Fatalf("encoder.New: %v", err)
	}
	r, err := rollout.New(rollout.DefaultConfig(), enc, 1)
	if err != nil {
		t.Fatalf("rollout.New: %v", err)
	}

	l, err := policy.NewLinear(m.Len(), enc.NumStates(), env.NumActions, 0.1,
		0.9)
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}
	q, err := qtable.New(m.Len())
	if err != nil {
		t.Fatalf("qtable.New: %v", err)
	}
	b, err := expreplay.Config{
		SampleMethod:      expreplay.Uniform,
		SampleSize:        4,
		MinReplayCapacity: 8,
		MaxReplayCapacity: 100,
	}.Create(1)
	if err != nil {
		t.Fatalf("expreplay: %v", err)
	}

	o, err := NewOnline(g, r, l, q, b, c, 1, tr...)
	if err != nil {
		t.Fatalf("NewOnline: %v", err)
	}
	return o
}

func config() Config {
	return Config{
		Episodes:        3,
		ExploreEpisodes: 1,
		MaxEpisodeSteps: 60,
		Epsilon:         0.3,
		LearningRate:    0.1,
		Discount:        0.9,
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	ret := trackers.NewReturn(filepath.Join(dir, "return.bin"))
	length := trackers.NewEpisodeLength(filepath.Join(dir, "length.bin"))
	o := newOnline(t, config(), ret)
	o.Register(length)

	var summaries []Summary
	if err := o.RunFunc(context.Background(), func(s Summary) {
		summaries = append(summaries, s)
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(summaries) != 3 {
		t.Fatalf("want 3 episodes, have %d", len(summaries))
	}
	for i, s := range summaries {
		if s.Episode != i {
			t.Errorf("want episode %d, have %d", i, s.Episode)
		}
		if s.Rollouts < 1 || s.Steps < 1 {
			t.Errorf("episode %d took no steps", i)
		}
		// Each rollout takes at most StepLimit steps
		if s.Steps > config().MaxEpisodeSteps+rollout.DefaultStepLimit-1 {
			t.Errorf("episode %d: %d steps exceeds cap", i, s.Steps)
		}
		if !s.Done && s.Steps < config().MaxEpisodeSteps {
			t.Errorf("episode %d ended early after %d steps", i, s.Steps)
		}
	}

	if len(ret.Data()) != 3 || len(length.Data()) != 3 {
		t.Fatalf("want 3 tracked episodes, have %d and %d", len(ret.Data()),
			len(length.Data()))
	}
	for i, s := range summaries {
		if length.Data()[i] != float64(s.Steps) {
			t.Errorf("episode %d: tracked %v steps, want %d", i,
				length.Data()[i], s.Steps)
		}
	}

	if err := o.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := trackers.LoadData(filepath.Join(dir, "return.bin"))
	if err != nil || len(data) != 3 {
		t.Errorf("want 3 saved returns, have %v (%v)", data, err)
	}
}

func TestRunPersistsRollouts(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "rollouts.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	c := config()
	c.Episodes = 2
	o := newOnline(t, c)
	o.SetStore(s)

	var rollouts int
	if err := o.RunFunc(context.Background(), func(sum Summary) {
		rollouts += sum.Rollouts
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	counts, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if counts[store.Explore] < 1 || counts[store.Option] < 1 {
		t.Errorf("want both kinds of rollouts stored, have %v", counts)
	}
	if counts[store.Explore]+counts[store.Option] != rollouts {
		t.Errorf("want %d stored rollouts, have %v", rollouts, counts)
	}

	ids, err := s.Episode(1)
	if err != nil {
		t.Fatalf("Episode: %v", err)
	}
	for _, id := range ids {
		rec, err := s.Load(id)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if rec.Kind != store.Option {
			t.Errorf("episode 1 should only execute options, have %v", rec.Kind)
		}
		if len(rec.Transitions) != rec.Steps {
			t.Errorf("want one transition per step, have %d for %d",
				len(rec.Transitions), rec.Steps)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	o := newOnline(t, config())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := o.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, have %v", err)
	}
}

func TestSelectOptionSkipsCurrentRegion(t *testing.T) {
	c := config()
	c.Epsilon = 1
	o := newOnline(t, c)

	for i := 0; i < 100; i++ {
		option := o.selectOption(rollout.AcquireKey, region.Region(2))
		if o.Target(option) == region.Region(2) {
			t.Fatalf("chose option targeting the current region")
		}
	}

	o.config.Epsilon = 0
	o.Table().Set(rollout.AcquireKey, region.Region(0), 3, 1)
	o.Table().Set(rollout.AcquireKey, region.Region(0), 0, 5)
	if option := o.selectOption(rollout.AcquireKey, region.Region(0)); option != 3 {
		t.Errorf("want greedy option 3, have %d", option)
	}
}

func TestNewOnlineErrors(t *testing.T) {
	c := config()
	c.LearningRate = 0
	if err := c.Validate(); err == nil {
		t.Error("want error for zero learning rate")
	}

	o := newOnline(t, config())
	q, _ := qtable.New(2)
	if _, err := NewOnline(o.Environment, o.runner, o.learner, q, o.buffer,
		config(), 0); err == nil {
		t.Error("want error for mismatched Q-table")
	}
}
