package geo

import "math"

// BoundingBox is an axis aligned rectangle in grid data units.
// Since the y axis grows downward, YMin is the top edge and YMax the bottom edge.
type BoundingBox struct {
	XMin float64 `json:"xmin"`
	XMax float64 `json:"xmax"`
	YMin float64 `json:"ymin"`
	YMax float64 `json:"ymax"`
}

func NewBoundingBox(xmin, xmax, ymin, ymax float64) BoundingBox {
	return BoundingBox{
		XMin: xmin,
		XMax: xmax,
		YMin: ymin,
		YMax: ymax,
	}
}

// BoxAround returns the width x height box whose left edge is at x and that is vertically centered on y.
func BoxAround(x, y, width, height float64) BoundingBox {
	return NewBoundingBox(x, x+width, y-height/2, y+height/2)
}

func (b BoundingBox) Width() float64 {
	return b.XMax - b.XMin
}

func (b BoundingBox) Height() float64 {
	return b.YMax - b.YMin
}

// Empty reports whether b has no area, which is the case for a box that was never measured.
func (b BoundingBox) Empty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

func (b BoundingBox) Center() Point {
	return NewPoint(b.XMin+b.Width()/2, b.YMin+b.Height()/2)
}

// Translate returns b moved by dx, dy.
func (b BoundingBox) Translate(dx, dy float64) BoundingBox {
	return NewBoundingBox(b.XMin+dx, b.XMax+dx, b.YMin+dy, b.YMax+dy)
}

// Overlaps reports whether the interiors of b and o intersect.
// Boxes that only share an edge do not overlap.
func (b BoundingBox) Overlaps(o BoundingBox) bool {
	if b.XMin >= o.XMax || o.XMin >= b.XMax {
		return false
	}
	if b.YMin >= o.YMax || o.YMin >= b.YMax {
		return false
	}
	return true
}

// WithinEpsilon reports whether b and o are at most epsilon apart on both axes.
// Unlike Overlaps the test is inclusive, so boxes exactly epsilon apart are within epsilon.
func (b BoundingBox) WithinEpsilon(o BoundingBox, epsilon float64) bool {
	if b.XMin-epsilon > o.XMax || o.XMin-epsilon > b.XMax {
		return false
	}
	if b.YMin-epsilon > o.YMax || o.YMin-epsilon > b.YMax {
		return false
	}
	return true
}

func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return NewBoundingBox(
		math.Min(b.XMin, o.XMin),
		math.Max(b.XMax, o.XMax),
		math.Min(b.YMin, o.YMin),
		math.Max(b.YMax, o.YMax),
	)
}
