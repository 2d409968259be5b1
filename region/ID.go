package region

import "fmt"

// Kind distinguishes ordinary regions from the virtual terminal
// regions that denote task completion
type Kind int

const (
	// Unmapped is the kind of the zero ID, returned for positions that
	// lie outside every configured rectangle
	Unmapped Kind = iota
	Ordinary
	KeyTerminal
	DoorTerminal
	GoalTerminal
)

func (k Kind) String() string {
	switch k {
	case Ordinary:
		return "Ordinary"
	case KeyTerminal:
		return "KeyTerminal"
	case DoorTerminal:
		return "DoorTerminal"
	case GoalTerminal:
		return "GoalTerminal"
	default:
		return "Unmapped"
	}
}

// Legacy codes of the terminal regions. These are used only when an
// ID must be represented as a single integer (e.g. in persisted
// rollouts or printed Q-tables).
const (
	KeyCode  int = 101
	DoorCode int = 102
	GoalCode int = 103

	// NoneCode is the integer representation of an unmapped region
	NoneCode int = -1
)

// ID identifies a region. IDs are comparable with ==, and ordinary
// region indices can never collide with the terminal regions.
type ID struct {
	kind  Kind
	index int
}

// Terminal region IDs
var (
	None = ID{}
	Key  = ID{kind: KeyTerminal}
	Door = ID{kind: DoorTerminal}
	Goal = ID{kind: GoalTerminal}
)

// Region returns the ID of the ordinary region with index i
func Region(i int) ID {
	return ID{kind: Ordinary, index: i}
}

// Kind returns the kind of region the ID refers to
func (id ID) Kind() Kind {
	return id.kind
}

// Index returns the index of an ordinary region. The boolean is false
// for terminal and unmapped regions.
func (id ID) Index() (int, bool) {
	return id.index, id.kind == Ordinary
}

// IsTerminal returns whether the ID denotes task completion
func (id ID) IsTerminal() bool {
	return id.kind == KeyTerminal || id.kind == DoorTerminal ||
		id.kind == GoalTerminal
}

// IsNone returns whether the ID is the unmapped region
func (id ID) IsNone() bool {
	return id.kind == Unmapped
}

// Code returns the integer representation of the ID
func (id ID) Code() int {
	switch id.kind {
	case Ordinary:
		return id.index
	case KeyTerminal:
		return KeyCode
	case DoorTerminal:
		return DoorCode
	case GoalTerminal:
		return GoalCode
	default:
		return NoneCode
	}
}

// FromCode converts the integer representation returned by Code back
// into an ID
func FromCode(code int) ID {
	switch code {
	case KeyCode:
		return Key
	case DoorCode:
		return Door
	case GoalCode:
		return Goal
	case NoneCode:
		return None
	default:
		return Region(code)
	}
}

func (id ID) String() string {
	switch id.kind {
	case Ordinary:
		return fmt.Sprintf("Region(%d)", id.index)
	case Unmapped:
		return "None"
	default:
		return id.kind.String()
	}
}
