package geo

import "math"

type Circle struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

func NewCircle(center Point, radius float64) Circle {
	return Circle{Center: center, Radius: radius}
}

// PointAt is the point on the circle's boundary at angle radians from the x axis.
func (c Circle) PointAt(angle float64) Point {
	return NewPoint(
		c.Center.X+math.Cos(angle)*c.Radius,
		c.Center.Y+math.Sin(angle)*c.Radius,
	)
}

// PointFacing is the point on the circle's boundary closest to p.
func (c Circle) PointFacing(p Point) Point {
	return c.PointAt(c.Center.AngleTo(p))
}

// CircleConnector returns the segment joining two circles of radius r centered at a and b,
// starting and ending on their boundaries instead of their centers.
//
// The angle is computed separately for each direction with atan2 so that vertical and
// horizontal pairs land on the correct side of each circle.
// When a and b coincide both points sit at angle 0.
func CircleConnector(a, b Point, r float64) Segment {
	ca := NewCircle(a, r)
	cb := NewCircle(b, r)
	return NewSegment(ca.PointFacing(b), cb.PointFacing(a))
}
