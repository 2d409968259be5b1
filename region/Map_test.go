package region

import (
	"bytes"
	"log"
	"strings"
	"testing"

	ts "github.com/samuelfneumann/goptions/timestep"
)

func fourRooms(t *testing.T) *Map {
	t.Helper()
	m, err := NewMap(
		NewBound(0, 1, 1, 3, 3),
		NewBound(1, 4, 1, 6, 3),
		NewBound(2, 1, 4, 3, 6),
		NewBound(3, 4, 4, 6, 6),
	)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	m.SetLogger(log.New(&bytes.Buffer{}, "", 0))
	return m
}

func TestLocateInsideRegions(t *testing.T) {
	m := fourRooms(t)

	for _, b := range m.Bounds() {
		for x := b.Min.X; x <= b.Max.X; x++ {
			for y := b.Min.Y; y <= b.Max.Y; y++ {
				id, err := m.Locate(ts.Position{X: x, Y: y})
				if err != nil {
					t.Fatalf("locate (%d, %d): %v", x, y, err)
				}
				if id != Region(b.ID) {
					t.Errorf("locate (%d, %d): want %v, have %v", x, y,
						Region(b.ID), id)
				}
			}
		}
	}
}

func TestLocalIndexBijection(t *testing.T) {
	m := fourRooms(t)

	for _, b := range m.Bounds() {
		seen := make(map[int]bool)
		for x := b.Min.X; x <= b.Max.X; x++ {
			for y := b.Min.Y; y <= b.Max.Y; y++ {
				i, err := m.LocalIndex(ts.Position{X: x, Y: y}, Region(b.ID))
				if err != nil {
					t.Fatalf("localIndex: %v", err)
				}
				if i < 0 || i >= b.Area() {
					t.Fatalf("localIndex %d out of range [0, %d)", i, b.Area())
				}
				if seen[i] {
					t.Fatalf("localIndex %d produced twice in %v", i, b)
				}
				seen[i] = true
			}
		}
		if len(seen) != b.Area() {
			t.Errorf("region %d: want %d indices, have %d", b.ID, b.Area(),
				len(seen))
		}
	}
}

func TestLocalIndexRowMajor(t *testing.T) {
	m, err := NewMap(NewBound(7, 2, 5, 5, 6))
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}

	tests := []struct {
		p    ts.Position
		want int
	}{
		{ts.Position{X: 2, Y: 5}, 0},
		{ts.Position{X: 5, Y: 5}, 3},
		{ts.Position{X: 2, Y: 6}, 4},
		{ts.Position{X: 4, Y: 6}, 6},
	}
	for _, test := range tests {
		have, err := m.LocalIndex(test.p, Region(7))
		if err != nil {
			t.Fatalf("localIndex: %v", err)
		}
		if have != test.want {
			t.Errorf("localIndex %v: want %d, have %d", test.p, test.want,
				have)
		}
	}
}

func TestLocalIndexOutsideRegion(t *testing.T) {
	m := fourRooms(t)

	_, err := m.LocalIndex(ts.Position{X: 5, Y: 5}, Region(0))
	if !IsOutsideRegion(err) {
		t.Errorf("want outside region error, have %v", err)
	}

	_, err = m.LocalIndex(ts.Position{X: 1, Y: 1}, Key)
	if err == nil {
		t.Error("want error for terminal region")
	}
}

func TestLocateUnmapped(t *testing.T) {
	m := fourRooms(t)
	var buf bytes.Buffer
	m.SetLogger(log.New(&buf, "", 0))

	for _, p := range []ts.Position{{X: 0, Y: 0}, {X: 7, Y: 3}, {X: 3, Y: -1}} {
		buf.Reset()
		id, err := m.Locate(p)
		if !IsUnmapped(err) {
			t.Errorf("locate %v: want unmapped error, have %v", p, err)
		}
		if !id.IsNone() {
			t.Errorf("locate %v: want None, have %v", p, id)
		}
		if !strings.Contains(buf.String(), "no region found") {
			t.Errorf("locate %v: want diagnostic, have %q", p, buf.String())
		}
	}
}

func TestLocateFirstMatchWins(t *testing.T) {
	m, err := NewMap(
		NewBound(4, 0, 0, 2, 2),
		NewBound(9, 1, 1, 3, 3),
	)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}

	id, err := m.Locate(ts.Position{X: 2, Y: 2})
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if id != Region(4) {
		t.Errorf("want first inserted region, have %v", id)
	}
}

func TestNewMapErrors(t *testing.T) {
	tests := map[string][]Bound{
		"empty":     nil,
		"inverted":  {NewBound(0, 3, 0, 1, 2)},
		"duplicate": {NewBound(0, 0, 0, 1, 1), NewBound(0, 2, 2, 3, 3)},
		"reserved":  {NewBound(KeyCode, 0, 0, 1, 1)},
	}
	for name, bounds := range tests {
		if _, err := NewMap(bounds...); err == nil {
			t.Errorf("%s: want error", name)
		}
	}
}

func TestMaxArea(t *testing.T) {
	m, err := NewMap(NewBound(0, 0, 0, 1, 1), NewBound(1, 2, 0, 6, 2))
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	if have := m.MaxArea(); have != 15 {
		t.Errorf("want 15, have %d", have)
	}
}

func TestIDCodes(t *testing.T) {
	ids := []ID{None, Key, Door, Goal, Region(0), Region(12)}
	for _, id := range ids {
		if back := FromCode(id.Code()); back != id {
			t.Errorf("code round trip %v: have %v", id, back)
		}
	}

	if Key.Code() != 101 || Door.Code() != 102 || Goal.Code() != 103 {
		t.Error("terminal regions must keep codes 101, 102, 103")
	}
	if Region(101) == Key {
		t.Error("ordinary region 101 must not equal the key terminal")
	}
	if !Goal.IsTerminal() || Region(3).IsTerminal() || None.IsTerminal() {
		t.Error("IsTerminal mismatch")
	}
}
