// Package experiment implements functionality for running an experiment
// in which a high-level Q-table chooses options that a Runner executes
package experiment

import (
	"context"
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goptions/agent"
	env "github.com/samuelfneumann/goptions/environment"
	"github.com/samuelfneumann/goptions/experiment/trackers"
	"github.com/samuelfneumann/goptions/expreplay"
	"github.com/samuelfneumann/goptions/qtable"
	"github.com/samuelfneumann/goptions/region"
	"github.com/samuelfneumann/goptions/rollout"
	"github.com/samuelfneumann/goptions/store"
	ts "github.com/samuelfneumann/goptions/timestep"
)

// Config configures an Online experiment
type Config struct {
	Episodes int

	// ExploreEpisodes is the number of initial episodes in which only
	// exploratory rollouts are run
	ExploreEpisodes int

	// MaxEpisodeSteps caps the number of primitive steps per episode.
	// Zero leaves episode length to the environment.
	MaxEpisodeSteps int

	// Epsilon is the probability of choosing a random option
	Epsilon float64

	// LearningRate and Discount are used to update the Q-table
	LearningRate float64
	Discount     float64
}

// Validate returns an error describing whether or not the
// configuration is valid
func (c Config) Validate() error {
	if c.Episodes < 0 || c.ExploreEpisodes < 0 || c.MaxEpisodeSteps < 0 {
		return fmt.Errorf("episode counts must be non-negative")
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("epsilon must be in [0, 1], have %v", c.Epsilon)
	}
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("learning rate must be in (0, 1], have %v",
			c.LearningRate)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("discount must be in [0, 1], have %v", c.Discount)
	}
	return nil
}

// Summary describes a finished episode
type Summary struct {
	Episode  int
	Return   float64
	Steps    int
	Rollouts int

	// Task is the task being pursued when the episode ended
	Task rollout.Task

	// Done reports whether the environment ended the episode
	Done bool
}

// Online is an experiment in which options are chosen, executed, and
// learned from online. Option i targets the i-th region of the
// Runner's region map.
type Online struct {
	env.Environment
	runner  *rollout.Runner
	learner agent.Learner
	table   *qtable.Table
	buffer  expreplay.ExperienceReplayer
	store   *store.Store

	config   Config
	rng      *rand.Rand
	targets  []region.ID
	options  map[region.ID]int
	episode  int
	trackers []trackers.Tracker
}

// NewOnline creates and returns a new online experiment on environment
// e. Options are executed by r on behalf of l, chosen by q, and the
// transitions they generate are learned from through b.
func NewOnline(e env.Environment, r *rollout.Runner, l agent.Learner,
	q *qtable.Table, b expreplay.ExperienceReplayer, c Config, seed uint64,
	t ...trackers.Tracker) (*Online, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newOnline: %v", err)
	}
	if e == nil || r == nil || l == nil || q == nil || b == nil {
		return nil, fmt.Errorf("newOnline: nil argument")
	}

	bounds := r.Encoder().Regions().Bounds()
	if q.NumOptions() != len(bounds) {
		return nil, fmt.Errorf("newOnline: Q-table has %d options, want one "+
			"per region (%d)", q.NumOptions(), len(bounds))
	}

	targets := make([]region.ID, len(bounds))
	options := make(map[region.ID]int, len(bounds))
	for i, b := range bounds {
		targets[i] = region.Region(b.ID)
		options[targets[i]] = i
	}

	return &Online{
		Environment: e,
		runner:      r,
		learner:     l,
		table:       q,
		buffer:      b,
		config:      c,
		rng:         rand.New(rand.NewSource(seed)),
		targets:     targets,
		options:     options,
		trackers:    t,
	}, nil
}

// Register registers a Tracker with the experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// SetStore sets the store that every rollout is persisted in. A nil
// store disables persistence.
func (o *Online) SetStore(s *store.Store) {
	o.store = s
}

// Table returns the experiment's Q-table
func (o *Online) Table() *qtable.Table {
	return o.table
}

// Target returns the region targeted by option
func (o *Online) Target(option int) region.ID {
	return o.targets[option]
}

// locate returns the region of p, or region.None if p is unmapped
func (o *Online) locate(p ts.Position) region.ID {
	id, err := o.runner.Encoder().Regions().Locate(p)
	if err != nil {
		return region.None
	}
	return id
}

// selectOption chooses an option epsilon-greedily with respect to the
// Q-table. The option targeting the current region is never chosen.
func (o *Online) selectOption(task rollout.Task, current region.ID) int {
	candidates := make([]int, 0, len(o.targets))
	for i, t := range o.targets {
		if t != current {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return 0
	}

	if o.rng.Float64() < o.config.Epsilon {
		return candidates[o.rng.Intn(len(candidates))]
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if o.table.Get(task, current, c) > o.table.Get(task, current, best) {
			best = c
		}
	}
	return best
}

// RunEpisode runs a single episode of the experiment. The context is
// checked between rollouts, never during one.
func (o *Online) RunEpisode(ctx context.Context) (Summary, error) {
	step, err := o.Reset()
	if err != nil {
		return Summary{}, fmt.Errorf("runEpisode: reset: %w", err)
	}

	var oc rollout.Context
	task := rollout.AcquireKey
	pos := step.Position
	current := o.locate(pos)
	explore := o.episode < o.config.ExploreEpisodes

	summary := Summary{Episode: o.episode}
	defer func() { o.episode++ }()

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		var reward float64
		var next region.ID
		var steps int

		if explore {
			res, err := o.runner.Explore(o.Environment, pos, current, task)
			if err != nil {
				return summary, fmt.Errorf("runEpisode: %w", err)
			}
			if err := o.observeExploration(task, res); err != nil {
				return summary, fmt.Errorf("runEpisode: %w", err)
			}
			reward, next, steps = res.TotalReward, res.Next, res.Steps
			pos, summary.Done = res.Position, res.FinalDone
		} else {
			option := o.selectOption(task, current)
			req := rollout.Request{
				Env:      o.Environment,
				Position: pos,
				Worker:   o.learner,
				Option:   option,
				Task:     task,
				Initial:  current,
				Target:   o.targets[option],
			}
			res, err := o.runner.Run(req, &oc)
			if err != nil {
				return summary, fmt.Errorf("runEpisode: %w", err)
			}
			if err := o.observeResult(task, current, option, res); err != nil {
				return summary, fmt.Errorf("runEpisode: %w", err)
			}
			reward, next, steps = res.TotalReward, res.EndRegion, res.Steps
			pos, summary.Done = res.Position, res.FinalDone
		}

		summary.Return += reward
		summary.Steps += steps
		summary.Rollouts++

		if next == task.Terminal() {
			if t, ok := task.Next(); ok {
				task = t
			}
		}
		if next.IsTerminal() {
			next = o.locate(pos)
		}
		current = next

		over := summary.Done || (o.config.MaxEpisodeSteps > 0 &&
			summary.Steps >= o.config.MaxEpisodeSteps)

		stepType := ts.Mid
		if over {
			stepType = ts.Last
		}
		o.track(ts.New(stepType, reward, pos, summary.Steps))

		if err := o.learn(); err != nil {
			return summary, fmt.Errorf("runEpisode: %w", err)
		}

		if over {
			summary.Task = task
			return summary, nil
		}
	}
}

// observeResult updates the Q-table with the result of executing
// option, adds its transitions to the replay buffer, and persists it.
//
// The experienced trajectory of an overshooting option is credited to
// the option that targets the region actually reached, while the
// intended trajectory is credited to the option that was executed.
func (o *Online) observeResult(task rollout.Task, initial region.ID,
	option int, res rollout.Result) error {
	target := res.TotalReward
	if !res.FinalDone && !res.EndRegion.IsTerminal() && !res.EndRegion.IsNone() {
		_, v := o.table.Best(task, res.EndRegion)
		target += o.config.Discount * v
	}
	o.table.Update(task, initial, option, target, o.config.LearningRate)

	actual := option
	if res.Outcome == rollout.Overshoot {
		if err := expreplay.AddTrajectory(o.buffer, option,
			res.Intended); err != nil {
			return err
		}
		reached, ok := o.options[res.EndRegion]
		if !ok {
			actual = -1
		} else {
			actual = reached
		}
	}
	if actual >= 0 {
		if err := expreplay.AddTrajectory(o.buffer, actual,
			res.Transitions); err != nil {
			return err
		}
	}

	if o.store != nil {
		if _, err := o.store.SaveResult(o.episode, task, option, initial,
			res); err != nil {
			return err
		}
	}
	return nil
}

// observeExploration adds the transitions of an exploratory rollout
// to the replay buffer, credited to the option targeting the region
// that was reached, and persists it
func (o *Online) observeExploration(task rollout.Task,
	res rollout.Exploration) error {
	if option, ok := o.options[res.Next]; ok && res.Next != res.Initial {
		if err := expreplay.AddTrajectory(o.buffer, option,
			res.Transitions); err != nil {
			return err
		}
	}

	if o.store != nil {
		if _, err := o.store.SaveExploration(o.episode, task, res); err != nil {
			return err
		}
	}
	return nil
}

// learn updates the learner on a batch sampled from the replay buffer,
// if the buffer holds enough experience
func (o *Online) learn() error {
	batch, err := o.buffer.Sample()
	if expreplay.IsEmptyBuffer(err) || expreplay.IsInsufficientSamples(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("learn: %w", err)
	}

	for _, e := range batch {
		o.learner.Update(e.Option, e.State, e.Action, e.Reward, e.NextState,
			e.Done)
	}
	return nil
}

// Run runs the experiment for all episodes
func (o *Online) Run(ctx context.Context) error {
	return o.RunFunc(ctx, nil)
}

// RunFunc runs the experiment for all episodes, calling f, if non-nil,
// after each episode
func (o *Online) RunFunc(ctx context.Context, f func(Summary)) error {
	for o.episode < o.config.Episodes {
		s, err := o.RunEpisode(ctx)
		if err != nil {
			return fmt.Errorf("run: episode %d: %w", s.Episode, err)
		}
		if f != nil {
			f(s)
		}
	}
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}

// track tracks the current timestep by caching its data in each tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}
