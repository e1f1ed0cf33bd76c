package geo

import (
	"fmt"
	"math"
)

// Point is a position in grid data units. The y axis grows downward: row 0 is at the top.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Midpoint returns the point halfway between p1 and p2.
func (p1 Point) Midpoint(p2 Point) Point {
	return p1.Interpolate(p2, 0.5)
}

func (p Point) ToString() string {
	return fmt.Sprintf("(%v, %v)", p.X, p.Y)
}

func (p Point) String() string {
	return p.ToString()
}

func (p1 Point) DistanceTo(p2 Point) float64 {
	return EuclideanDistance(p1.X, p1.Y, p2.X, p2.Y)
}

// Moves the given point by Vector
func (start Point) AddVector(v Vector) Point {
	return start.ToVector().Add(v).ToPoint()
}

// AngleTo is the quadrant aware angle in radians of the direction from start to endpoint.
func (start Point) AngleTo(endpoint Point) float64 {
	return math.Atan2(endpoint.Y-start.Y, endpoint.X-start.X)
}

// Creates a Vector pointing to point
func (endpoint Point) ToVector() Vector {
	return []float64{endpoint.X, endpoint.Y}
}

// point t% of the way between a and b
func (a Point) Interpolate(b Point, t float64) Point {
	return NewPoint(
		a.X*(1.0-t)+b.X*t,
		a.Y*(1.0-t)+b.Y*t,
	)
}

func (p Point) Translate(dx, dy float64) Point {
	return NewPoint(p.X+dx, p.Y+dy)
}
