// Package region partitions grid coordinates into axis-aligned
// rectangular regions, which are used both for state abstraction and
// for deciding when options terminate
package region

import (
	"fmt"
	"log"
	"os"

	ts "github.com/samuelfneumann/goptions/timestep"
)

// Bound is an axis-aligned rectangle, inclusive on all four sides,
// belonging to the ordinary region with index ID
type Bound struct {
	ID  int
	Min ts.Position
	Max ts.Position
}

// NewBound returns a new Bound covering (xMin, yMin) through
// (xMax, yMax) inclusive
func NewBound(id, xMin, yMin, xMax, yMax int) Bound {
	return Bound{
		ID:  id,
		Min: ts.Position{X: xMin, Y: yMin},
		Max: ts.Position{X: xMax, Y: yMax},
	}
}

// Width returns the number of columns in the rectangle
func (b Bound) Width() int {
	return b.Max.X - b.Min.X + 1
}

// Height returns the number of rows in the rectangle
func (b Bound) Height() int {
	return b.Max.Y - b.Min.Y + 1
}

// Area returns the number of cells in the rectangle
func (b Bound) Area() int {
	return b.Width() * b.Height()
}

// Contains returns whether p lies in the rectangle
func (b Bound) Contains(p ts.Position) bool {
	return b.Min.X <= p.X && p.X <= b.Max.X &&
		b.Min.Y <= p.Y && p.Y <= b.Max.Y
}

func (b Bound) String() string {
	return fmt.Sprintf("Region %d: %v-%v", b.ID, b.Min, b.Max)
}

// Map maps global grid positions to the regions that contain them.
//
// Regions are scanned in the order they were given to NewMap, and the
// first region containing a position is returned. Overlapping
// rectangles are not rejected.
type Map struct {
	bounds []Bound
	index  map[int]int // region ID -> position in bounds
	logger *log.Logger
}

// NewMap returns a new Map over the argument bounds
func NewMap(bounds ...Bound) (*Map, error) {
	if len(bounds) == 0 {
		return nil, fmt.Errorf("newMap: at least one region is required")
	}

	index := make(map[int]int, len(bounds))
	for i, b := range bounds {
		if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y {
			return nil, fmt.Errorf("newMap: region %d has min %v > max %v",
				b.ID, b.Min, b.Max)
		}
		if b.ID == KeyCode || b.ID == DoorCode || b.ID == GoalCode ||
			b.ID == NoneCode {
			return nil, fmt.Errorf("newMap: region id %d is reserved", b.ID)
		}
		if _, ok := index[b.ID]; ok {
			return nil, fmt.Errorf("newMap: duplicate region id %d", b.ID)
		}
		index[b.ID] = i
	}

	m := &Map{
		bounds: append([]Bound(nil), bounds...),
		index:  index,
		logger: log.New(os.Stderr, "", log.LstdFlags),
	}
	return m, nil
}

// SetLogger sets the logger used to report positions that lie outside
// every region
func (m *Map) SetLogger(l *log.Logger) {
	m.logger = l
}

// Len returns the number of regions in the Map
func (m *Map) Len() int {
	return len(m.bounds)
}

// Bounds returns the regions of the Map in lookup order
func (m *Map) Bounds() []Bound {
	return append([]Bound(nil), m.bounds...)
}

// Bound returns the rectangle of an ordinary region
func (m *Map) Bound(id ID) (Bound, error) {
	i, ok := id.Index()
	if !ok {
		return Bound{}, &Error{Op: "bound", Err: errNoSuchRegion}
	}
	pos, ok := m.index[i]
	if !ok {
		return Bound{}, &Error{Op: "bound", Err: errNoSuchRegion}
	}
	return m.bounds[pos], nil
}

// MaxArea returns the largest region area in the Map. State vectors
// built over the Map must have at least this many entries.
func (m *Map) MaxArea() int {
	max := 0
	for _, b := range m.bounds {
		if a := b.Area(); a > max {
			max = a
		}
	}
	return max
}

// Locate returns the first region containing p. If no region contains
// p, a diagnostic is logged and None is returned together with an
// error satisfying IsUnmapped.
func (m *Map) Locate(p ts.Position) (ID, error) {
	for _, b := range m.bounds {
		if b.Contains(p) {
			return Region(b.ID), nil
		}
	}

	if m.logger != nil {
		m.logger.Printf("region: no region found for position %v", p)
	}
	return None, &Error{Op: "locate", Err: errUnmapped}
}

// LocalIndex returns the index of p within the region id, counting
// row by row from the region's minimum corner. The position must lie
// in the region; call Locate first.
func (m *Map) LocalIndex(p ts.Position, id ID) (int, error) {
	b, err := m.Bound(id)
	if err != nil {
		return 0, &Error{Op: "localIndex", Err: errNoSuchRegion}
	}
	if !b.Contains(p) {
		return 0, &Error{
			Op:  "localIndex",
			Err: fmt.Errorf("%w: %v not in %v", errOutsideRegion, p, b),
		}
	}

	localX := p.X - b.Min.X + 1
	localY := p.Y - b.Min.Y + 1
	return (localY-1)*b.Width() + (localX - 1), nil
}
