// Package config provides the JSON-serializable configuration of an
// option learning experiment, along with functions that create the
// environment, region map, and experiment it describes
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samuelfneumann/goptions/agent/policy"
	"github.com/samuelfneumann/goptions/encoder"
	env "github.com/samuelfneumann/goptions/environment"
	"github.com/samuelfneumann/goptions/environment/gridworld"
	"github.com/samuelfneumann/goptions/experiment"
	"github.com/samuelfneumann/goptions/experiment/trackers"
	"github.com/samuelfneumann/goptions/expreplay"
	"github.com/samuelfneumann/goptions/qtable"
	"github.com/samuelfneumann/goptions/region"
	"github.com/samuelfneumann/goptions/rollout"
)

// Region is an inclusive rectangle belonging to region ID
type Region struct {
	ID   int
	XMin int
	YMin int
	XMax int
	YMax int
}

// Position is a grid cell
type Position struct {
	X int
	Y int
}

// Config configures an experiment
type Config struct {
	// Environment
	Size           int
	Start          Position
	StartDirection int

	// MaxSteps is the episode cutoff of the environment. Zero means
	// 4 * Size * Size.
	MaxSteps int

	// Regions default to the key-door regions of the grid if empty
	Regions []Region

	// Rollouts
	StepLimit     int
	Epsilon       float64
	RegionTimeout int

	// Experiment
	Seed            uint64
	Episodes        int
	ExploreEpisodes int
	MaxEpisodeSteps int
	OptionEpsilon   float64
	LearningRate    float64
	Discount        float64

	// Worker
	WorkerLearningRate float64
	WorkerDiscount     float64

	Replay expreplay.Config

	// Outputs. Empty paths disable the corresponding output.
	Database   string
	ReturnFile string
	LengthFile string
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Size:           8,
		Start:          Position{X: 1, Y: 1},
		StartDirection: 0,

		StepLimit:     rollout.DefaultStepLimit,
		Epsilon:       rollout.DefaultEpsilon,
		RegionTimeout: rollout.DefaultRegionTimeout,

		Episodes:        100,
		ExploreEpisodes: 10,
		OptionEpsilon:   0.1,
		LearningRate:    0.1,
		Discount:        0.99,

		WorkerLearningRate: 0.1,
		WorkerDiscount:     0.9,

		Replay: expreplay.Config{
			SampleMethod:      expreplay.Uniform,
			SampleSize:        32,
			MinReplayCapacity: 64,
			MaxReplayCapacity: 10_000,
		},
	}
}

// Load reads a JSON configuration from path. Fields missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load: %v", err)
	}

	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("load: %v", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("load: %v", err)
	}
	return c, nil
}

// Write writes the configuration to path as indented JSON
func (c Config) Write(path string) error {
	data, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		return fmt.Errorf("write: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write: %v", err)
	}
	return nil
}

// EpisodeCutoff returns the maximum number of steps in an episode of
// the environment
func (c Config) EpisodeCutoff() int {
	if c.MaxSteps > 0 {
		return c.MaxSteps
	}
	return 4 * c.Size * c.Size
}

// Validate returns an error describing whether or not the
// configuration is valid
func (c Config) Validate() error {
	if c.Size < 6 {
		return fmt.Errorf("validate: size must be >= 6, have %d", c.Size)
	}
	if c.Start.X < 1 || c.Start.Y < 1 || c.Start.X > c.Size-2 ||
		c.Start.Y > c.Size-2 {
		return fmt.Errorf("validate: start %v outside grid", c.Start)
	}
	if !env.ValidAction(c.StartDirection) {
		return fmt.Errorf("validate: invalid start direction %d",
			c.StartDirection)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("validate: max steps must be >= 0")
	}
	if err := c.Rollout().Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if err := c.Experiment().Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if c.WorkerLearningRate <= 0 {
		return fmt.Errorf("validate: worker learning rate must be > 0")
	}
	return nil
}

// Rollout returns the configuration of the Runner
func (c Config) Rollout() rollout.Config {
	return rollout.Config{
		Epsilon:       c.Epsilon,
		StepLimit:     c.StepLimit,
		RegionTimeout: c.RegionTimeout,
	}
}

// Experiment returns the configuration of the experiment
func (c Config) Experiment() experiment.Config {
	return experiment.Config{
		Episodes:        c.Episodes,
		ExploreEpisodes: c.ExploreEpisodes,
		MaxEpisodeSteps: c.MaxEpisodeSteps,
		Epsilon:         c.OptionEpsilon,
		LearningRate:    c.LearningRate,
		Discount:        c.Discount,
	}
}

// Bounds returns the configured regions
func (c Config) Bounds() []region.Bound {
	if len(c.Regions) == 0 {
		return gridworld.KeyDoorRegions(c.Size)
	}

	bounds := make([]region.Bound, len(c.Regions))
	for i, r := range c.Regions {
		bounds[i] = region.NewBound(r.ID, r.XMin, r.YMin, r.XMax, r.YMax)
	}
	return bounds
}

// RegionMap returns the configured region map
func (c Config) RegionMap() (*region.Map, error) {
	m, err := region.NewMap(c.Bounds()...)
	if err != nil {
		return nil, fmt.Errorf("regionMap: %v", err)
	}
	return m, nil
}

// Environment returns the configured key-door grid world
func (c Config) Environment() (*gridworld.GridWorld, error) {
	layout, err := gridworld.KeyDoor(c.Size)
	if err != nil {
		return nil, fmt.Errorf("environment: %v", err)
	}
	goal, err := gridworld.NewGoal(c.Size-2, c.Size-2, c.EpisodeCutoff())
	if err != nil {
		return nil, fmt.Errorf("environment: %v", err)
	}
	start := env.NewSingleStart(c.Start.X, c.Start.Y)

	g, _, err := gridworld.New(layout, goal, start, c.StartDirection)
	if err != nil {
		return nil, fmt.Errorf("environment: %v", err)
	}
	return g, nil
}

// Runner returns the configured Runner over region map m
func (c Config) Runner(m *region.Map) (*rollout.Runner, error) {
	enc, err := encoder.New(m, m.MaxArea())
	if err != nil {
		return nil, fmt.Errorf("runner: %v", err)
	}
	r, err := rollout.New(c.Rollout(), enc, c.Seed)
	if err != nil {
		return nil, fmt.Errorf("runner: %v", err)
	}
	return r, nil
}

// Create returns the experiment described by the Config. Trackers are
// created for the configured tracker paths.
func (c Config) Create() (*experiment.Online, error) {
	g, err := c.Environment()
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	m, err := c.RegionMap()
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	r, err := c.Runner(m)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	l, err := policy.NewLinear(m.Len(), r.Encoder().NumStates(),
		env.NumActions, c.WorkerLearningRate, c.WorkerDiscount)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	q, err := qtable.New(m.Len())
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	b, err := c.Replay.Create(c.Seed)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	var t []trackers.Tracker
	if c.ReturnFile != "" {
		t = append(t, trackers.NewReturn(c.ReturnFile))
	}
	if c.LengthFile != "" {
		t = append(t, trackers.NewEpisodeLength(c.LengthFile))
	}

	o, err := experiment.NewOnline(g, r, l, q, b, c.Experiment(), c.Seed, t...)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	return o, nil
}
