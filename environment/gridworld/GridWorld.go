// Package gridworld implements a 2D key-door-goal gridworld
// environment
package gridworld

import (
	"fmt"
	"strings"

	env "github.com/samuelfneumann/goptions/environment"
	"github.com/samuelfneumann/goptions/region"
	ts "github.com/samuelfneumann/goptions/timestep"
)

// Layout describes the static contents of a GridWorld. The outer
// border of the grid is always walled.
type Layout struct {
	Size  int
	Walls []ts.Position

	// Key and Door are optional. A closed door blocks movement unless
	// the agent holds the key, in which case moving into the door
	// opens it.
	Key  *ts.Position
	Door *ts.Position
}

// KeyDoor returns a layout with a vertical wall splitting the grid in
// two. The wall has a single door, the key is in the bottom-left
// corner of the left room.
func KeyDoor(size int) (Layout, error) {
	if size < 6 {
		return Layout{}, fmt.Errorf("keyDoor: size must be >= 6, have %d",
			size)
	}
	wallX, doorY := size/2, size/2-1

	var walls []ts.Position
	for y := 1; y < size-1; y++ {
		if y != doorY {
			walls = append(walls, ts.Position{X: wallX, Y: y})
		}
	}
	key := ts.Position{X: 1, Y: size - 2}
	door := ts.Position{X: wallX, Y: doorY}

	return Layout{Size: size, Walls: walls, Key: &key, Door: &door}, nil
}

// KeyDoorRegions returns the regions matching the KeyDoor layout: the
// left room split into a top and bottom half, the doorway, and the
// right room.
func KeyDoorRegions(size int) []region.Bound {
	wallX, doorY := size/2, size/2-1
	return []region.Bound{
		region.NewBound(0, 1, 1, wallX-1, doorY),
		region.NewBound(1, 1, doorY+1, wallX-1, size-2),
		region.NewBound(2, wallX, doorY, wallX, doorY),
		region.NewBound(3, wallX+1, 1, size-2, size-2),
	}
}

// GridWorld represents a gridworld environment with an optional key
// and door. The Goal task determines rewards and episode termination.
type GridWorld struct {
	*Goal
	env.Starter
	layout    Layout
	walls     map[ts.Position]bool
	position  ts.Position
	direction int
	startDir  int

	hasKey   bool
	doorOpen bool

	currentStep ts.TimeStep
}

// New creates a new GridWorld with layout l, task t, and starting
// positions drawn from s. The agent initially faces direction dir.
func New(l Layout, t *Goal, s env.Starter, dir int) (*GridWorld,
	ts.TimeStep, error) {
	if l.Size < 3 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: size must be >= 3")
	}
	if !env.ValidAction(dir) {
		return nil, ts.TimeStep{}, fmt.Errorf("new: invalid direction %d", dir)
	}

	walls := make(map[ts.Position]bool)
	for i := 0; i < l.Size; i++ {
		walls[ts.Position{X: i, Y: 0}] = true
		walls[ts.Position{X: i, Y: l.Size - 1}] = true
		walls[ts.Position{X: 0, Y: i}] = true
		walls[ts.Position{X: l.Size - 1, Y: i}] = true
	}
	for _, w := range l.Walls {
		walls[w] = true
	}

	g := &GridWorld{
		Goal:     t,
		Starter:  s,
		layout:   l,
		walls:    walls,
		startDir: dir,
	}
	if g.walls[t.Position()] {
		return nil, ts.TimeStep{}, fmt.Errorf("new: goal %v is in a wall",
			t.Position())
	}

	step, err := g.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %v", err)
	}
	return g, step, nil
}

// Reset resets the environment between episodes
func (g *GridWorld) Reset() (ts.TimeStep, error) {
	start := g.Start()
	if g.walls[start] {
		return ts.TimeStep{}, fmt.Errorf("reset: start %v is in a wall", start)
	}

	g.position = start
	g.direction = g.startDir
	g.hasKey = false
	g.doorOpen = false

	g.currentStep = ts.New(ts.First, 0, start, 0)
	return g.currentStep, nil
}

// Step takes one primitive action in the environment
func (g *GridWorld) Step(action int) (ts.TimeStep, bool, error) {
	if !env.ValidAction(action) {
		return ts.TimeStep{}, false, fmt.Errorf("step: invalid action %d",
			action)
	}
	if g.currentStep.Last() {
		return ts.TimeStep{}, false, fmt.Errorf("step: episode has ended, " +
			"reset the environment")
	}

	g.direction = action
	next := g.move(g.position, action)
	g.position = next

	if g.layout.Key != nil && next == *g.layout.Key {
		g.hasKey = true
	}

	number := g.currentStep.Number + 1
	reward := g.GetReward(next, number)
	step := ts.New(ts.Mid, reward, next, number)
	last := g.End(&step)

	g.currentStep = step
	return step, last, nil
}

// move returns the position reached by taking action from p
func (g *GridWorld) move(p ts.Position, action int) ts.Position {
	var next ts.Position
	switch action {
	case env.North:
		next = p.Add(0, -1)
	case env.East:
		next = p.Add(1, 0)
	case env.South:
		next = p.Add(0, 1)
	case env.West:
		next = p.Add(-1, 0)
	}

	if g.walls[next] {
		return p
	}
	if g.layout.Door != nil && next == *g.layout.Door && !g.doorOpen {
		if !g.hasKey {
			return p
		}
		g.doorOpen = true
	}
	return next
}

// Key returns whether the agent has picked up the key
func (g *GridWorld) Key() bool {
	return g.hasKey
}

// Door returns whether the agent has opened the door
func (g *GridWorld) Door() bool {
	return g.doorOpen
}

// Position returns the current position of the agent
func (g *GridWorld) Position() ts.Position {
	return g.position
}

// FreeCells returns every cell that is not a wall or a door
func (g *GridWorld) FreeCells() []ts.Position {
	var cells []ts.Position
	for y := 0; y < g.layout.Size; y++ {
		for x := 0; x < g.layout.Size; x++ {
			p := ts.Position{X: x, Y: y}
			if g.walls[p] || (g.layout.Door != nil && p == *g.layout.Door) {
				continue
			}
			cells = append(cells, p)
		}
	}
	return cells
}

// arrows are the agent glyphs indexed by direction
var arrows = [env.NumActions]byte{env.North: '^', env.East: '>',
	env.South: 'v', env.West: '<'}

// String renders the grid. The agent is drawn as an arrow pointing in
// the direction it last moved (^ > v <), walls as #, the key as K, the
// door as D (or / when open), and the goal as G.
func (g *GridWorld) String() string {
	var b strings.Builder
	for y := 0; y < g.layout.Size; y++ {
		for x := 0; x < g.layout.Size; x++ {
			p := ts.Position{X: x, Y: y}
			switch {
			case p == g.position:
				b.WriteByte(arrows[g.direction])
			case g.walls[p]:
				b.WriteByte('#')
			case g.layout.Door != nil && p == *g.layout.Door:
				if g.doorOpen {
					b.WriteByte('/')
				} else {
					b.WriteByte('D')
				}
			case g.layout.Key != nil && p == *g.layout.Key && !g.hasKey:
				b.WriteByte('K')
			case g.AtGoal(p):
				b.WriteByte('G')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
