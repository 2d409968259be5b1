package gridworld

import (
	"fmt"

	env "github.com/samuelfneumann/goptions/environment"
	ts "github.com/samuelfneumann/goptions/timestep"
	"gonum.org/v1/gonum/floats"
)

// Goal represents the task of reaching a goal cell in a GridWorld
// within a step cutoff. Reaching the goal earlier is rewarded more:
// the goal reward is discounted linearly with the fraction of the
// cutoff that has been used.
type Goal struct {
	goal           ts.Position
	timeStepReward float64
	goalReward     float64
	stepLimit      env.StepLimit
	ender          env.Ender
}

// NewGoal creates and returns a new goal at position (x, y) with an
// episode cutoff of maxSteps steps
func NewGoal(x, y, maxSteps int) (*Goal, error) {
	if maxSteps < 1 {
		return nil, fmt.Errorf("newGoal: maxSteps must be >= 1")
	}

	goal := ts.Position{X: x, Y: y}
	stepLimit := env.NewStepLimit(maxSteps)
	atGoal := env.NewFunctionEnder(func(p ts.Position) bool {
		return p == goal
	}, ts.TerminalStateReached)

	return &Goal{
		goal:           goal,
		timeStepReward: 0.0,
		goalReward:     1.0,
		stepLimit:      stepLimit,
		ender:          env.Enders{atGoal, stepLimit},
	}, nil
}

// Position returns the goal cell
func (g *Goal) Position() ts.Position {
	return g.goal
}

// MaxSteps returns the episode cutoff
func (g *Goal) MaxSteps() int {
	return g.stepLimit.Steps()
}

// GetReward returns the reward for entering position next on step
// number
func (g *Goal) GetReward(next ts.Position, number int) float64 {
	if g.AtGoal(next) {
		used := float64(number) / float64(g.MaxSteps())
		return g.goalReward - 0.9*used
	}
	return g.timeStepReward
}

// AtGoal represents if the goal state has been reached or not
func (g *Goal) AtGoal(p ts.Position) bool {
	return p == g.goal
}

// End ends the episode at the goal or at the step cutoff
func (g *Goal) End(t *ts.TimeStep) bool {
	return g.ender.End(t)
}

// String returns the Goal as a string
func (g *Goal) String() string {
	return fmt.Sprintf("Goal%v", g.goal)
}

// Min returns the minimum reward attainable in the Task
func (g *Goal) Min() float64 {
	rewards := []float64{g.timeStepReward, g.goalReward - 0.9}
	return floats.Min(rewards)
}

// Max returns the maximum reward attainable in the Task
func (g *Goal) Max() float64 {
	rewards := []float64{g.timeStepReward, g.goalReward}
	return floats.Max(rewards)
}
