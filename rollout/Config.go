package rollout

import "fmt"

// Rewards assigned by rollouts
const (
	// TaskReward is given when the active task's event fires
	TaskReward float64 = 1.0

	// BoundaryReward is the intrinsic option-completion bonus given
	// whenever an option leaves its initial region
	BoundaryReward float64 = 0.8

	// MissPenalty replaces BoundaryReward in the intended trajectory
	// when an option leaves its region for the wrong neighbour
	MissPenalty float64 = -0.1

	// TimeoutPenalty is given when the agent has not changed region
	// for RegionTimeout steps
	TimeoutPenalty float64 = -0.1

	// SuccessRewardFloor is the total reward at or above which an
	// exploratory transition's reward is overwritten with the total
	// reward
	SuccessRewardFloor float64 = 0.9
)

// Defaults for Config
const (
	DefaultEpsilon       float64 = 0.20
	DefaultStepLimit     int     = 6
	DefaultRegionTimeout int     = 100
)

// Config configures a Runner
type Config struct {
	// Epsilon is the probability of replacing the worker's action
	// with a uniform random action
	Epsilon float64

	// StepLimit is the maximum number of primitive steps taken per
	// option or exploration call
	StepLimit int

	// RegionTimeout is the number of steps without a region change
	// after which TimeoutPenalty is applied
	RegionTimeout int
}

// DefaultConfig returns the default Runner configuration
func DefaultConfig() Config {
	return Config{
		Epsilon:       DefaultEpsilon,
		StepLimit:     DefaultStepLimit,
		RegionTimeout: DefaultRegionTimeout,
	}
}

// Validate returns an error describing whether or not the
// configuration is valid
func (c Config) Validate() error {
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("epsilon must be in [0, 1], have %v", c.Epsilon)
	}
	if c.StepLimit < 1 {
		return fmt.Errorf("step limit must be >= 1, have %v", c.StepLimit)
	}
	if c.RegionTimeout < 1 {
		return fmt.Errorf("region timeout must be >= 1, have %v",
			c.RegionTimeout)
	}
	return nil
}
