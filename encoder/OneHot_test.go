package encoder

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/samuelfneumann/goptions/region"
	ts "github.com/samuelfneumann/goptions/timestep"
	"gonum.org/v1/gonum/floats"
)

func twoRooms(t *testing.T) (*region.Map, *bytes.Buffer) {
	t.Helper()
	m, err := region.NewMap(
		region.NewBound(0, 1, 1, 3, 2),
		region.NewBound(1, 4, 1, 5, 2),
	)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	var buf bytes.Buffer
	m.SetLogger(log.New(&buf, "", 0))
	return m, &buf
}

func TestEncodeOneHot(t *testing.T) {
	m, _ := twoRooms(t)
	enc, err := New(m, 6)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		p    ts.Position
		want int
	}{
		{ts.Position{X: 1, Y: 1}, 0},
		{ts.Position{X: 3, Y: 2}, 5},
		{ts.Position{X: 4, Y: 1}, 0},
		{ts.Position{X: 5, Y: 2}, 3},
	}

	for _, test := range tests {
		vec := enc.Encode(test.p)
		if vec.Len() != 6 {
			t.Fatalf("want length 6, have %d", vec.Len())
		}
		if sum := floats.Sum(vec.RawVector().Data); sum != 1 {
			t.Errorf("encode %v: want a single hot entry, sum is %v",
				test.p, sum)
		}
		if have := Decode(vec); have != test.want {
			t.Errorf("encode %v: want index %d, have %d", test.p, test.want,
				have)
		}
	}
}

func TestEncodeUnmapped(t *testing.T) {
	m, buf := twoRooms(t)
	enc, err := New(m, 6)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	vec := enc.Encode(ts.Position{X: 0, Y: 0})
	if floats.Sum(vec.RawVector().Data) != 0 {
		t.Errorf("want zero vector, have %v", vec.RawVector().Data)
	}
	if Decode(vec) != -1 {
		t.Error("want decode of zero vector to be -1")
	}
	if !strings.Contains(buf.String(), "no region found") {
		t.Errorf("want diagnostic, have %q", buf.String())
	}
}

func TestEncodeInLocatedRegion(t *testing.T) {
	m, buf := twoRooms(t)
	enc, err := New(m, 6)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	p := ts.Position{X: 5, Y: 2}
	id, err := m.Locate(p)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if have, want := Decode(enc.EncodeIn(p, id)), Decode(enc.Encode(p)); have != want {
		t.Errorf("want index %d, have %d", want, have)
	}

	if Decode(enc.EncodeIn(ts.Position{X: 0, Y: 0}, region.None)) != -1 {
		t.Error("want zero vector for region None")
	}
	if buf.Len() != 0 {
		t.Errorf("encoding a located position should not log, have %q",
			buf.String())
	}
}

func TestNewRejectsSmallVectors(t *testing.T) {
	m, _ := twoRooms(t)
	if _, err := New(m, 5); err == nil {
		t.Error("want error when numStates < largest region area")
	}
	if _, err := New(nil, 5); err == nil {
		t.Error("want error for nil map")
	}
}

func BenchmarkEncode(b *testing.B) {
	m, err := region.NewMap(
		region.NewBound(0, 0, 0, 9, 9),
		region.NewBound(1, 10, 0, 19, 9),
	)
	if err != nil {
		b.Fatal(err)
	}
	enc, err := New(m, 100)
	if err != nil {
		b.Fatal(err)
	}
	p := ts.Position{X: 15, Y: 7}

	for i := 0; i < b.N; i++ {
		enc.Encode(p)
	}
}
