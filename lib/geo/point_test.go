package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointDistanceTo(t *testing.T) {
	p1 := Point{0, 0}
	p2 := Point{3, 4}

	d := p1.DistanceTo(p2)

	if d != 5.0 {
		t.Fatalf("Expected 5.0 and got %v", d)
	}
}

func TestAddVector(t *testing.T) {
	start := Point{1.5, 5.3}
	c := NewVector(-3.5, -2.3)
	p2 := start.AddVector(c)

	assert.InDelta(t, -2, p2.X, PRECISION)
	assert.InDelta(t, 3, p2.Y, PRECISION)
}

func TestToVector(t *testing.T) {
	p := Point{3.5, 6.7}
	v := p.ToVector()

	if len(v) != 2 {
		t.Fatal("Expected the Vector to have 2 components")
	}
	if v[0] != p.X || v[1] != p.Y {
		t.Fatalf("Expected Vector (%v) coordinates to match the point (%v)", v, p)
	}
}

func TestAngleTo(t *testing.T) {
	o := Point{0, 0}
	tcs := []struct {
		to  Point
		exp float64
	}{
		{Point{1, 0}, 0},
		{Point{0, 1}, math.Pi / 2},
		{Point{-1, 0}, math.Pi},
		{Point{0, -1}, -math.Pi / 2},
		{Point{-1, -1}, -3 * math.Pi / 4},
	}
	for _, tc := range tcs {
		assert.InDelta(t, tc.exp, o.AngleTo(tc.to), PRECISION, "angle to %v", tc.to)
	}
}

func TestMidpoint(t *testing.T) {
	assert.Equal(t, Point{21, 12}, Point{2, 10}.Midpoint(Point{40, 14}))
	assert.Equal(t, "(21, 12)", Point{21, 12}.String())
}
