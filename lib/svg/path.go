package svg

import (
	"fmt"
	"math"
	"strings"

	"oss.terrastruct.com/lifegraph/lib/geo"
)

// PathContext builds the d attribute of a path. Coordinates are scaled by
// Scale and offset by TopLeft.
type PathContext struct {
	Commands []string
	Start    geo.Point
	Current  geo.Point
	TopLeft  geo.Point
	Scale    float64
}

// TODO probably use math.Big
func chopPrecision(f float64) float64 {
	return math.Round(f*10000) / 10000
}

// Num formats f the way path data is written.
func Num(f float64) string {
	return fmt.Sprint(chopPrecision(f))
}

func NewPathContext(tl geo.Point, scale float64) *PathContext {
	return &PathContext{TopLeft: tl, Scale: scale}
}

func (c *PathContext) Relative(base geo.Point, dx, dy float64) geo.Point {
	return geo.NewPoint(chopPrecision(base.X+c.Scale*dx), chopPrecision(base.Y+c.Scale*dy))
}

func (c *PathContext) Absolute(x, y float64) geo.Point {
	return c.Relative(c.TopLeft, x, y)
}

func (c *PathContext) StartAt(p geo.Point) {
	c.Start = p
	c.Commands = append(c.Commands, fmt.Sprintf("M %v %v", p.X, p.Y))
	c.Current = p
}

// MoveTo starts a new subpath at the absolute x, y.
func (c *PathContext) MoveTo(x, y float64) {
	c.StartAt(c.Absolute(x, y))
}

func (c *PathContext) Z() {
	c.Commands = append(c.Commands, "Z")
	c.Current = c.Start
}

func (c *PathContext) L(isLowerCase bool, x, y float64) {
	var endPoint geo.Point
	if isLowerCase {
		endPoint = c.Relative(c.Current, x, y)
	} else {
		endPoint = c.Absolute(x, y)
	}
	c.Commands = append(c.Commands, fmt.Sprintf("L %v %v", endPoint.X, endPoint.Y))
	c.Current = endPoint
}

func (c *PathContext) H(isLowerCase bool, x float64) {
	var endPoint geo.Point
	if isLowerCase {
		endPoint = c.Relative(c.Current, x, 0)
	} else {
		endPoint = c.Absolute(x, 0)
		endPoint.Y = c.Current.Y
	}
	c.Commands = append(c.Commands, fmt.Sprintf("H %v", endPoint.X))
	c.Current = endPoint
}

func (c *PathContext) V(isLowerCase bool, y float64) {
	var endPoint geo.Point
	if isLowerCase {
		endPoint = c.Relative(c.Current, 0, y)
	} else {
		endPoint = c.Absolute(0, y)
		endPoint.X = c.Current.X
	}
	c.Commands = append(c.Commands, fmt.Sprintf("V %v", endPoint.Y))
	c.Current = endPoint
}

// Rect adds a closed w x h rectangle with its top left corner at the absolute x, y.
func (c *PathContext) Rect(x, y, w, h float64) {
	c.MoveTo(x, y)
	c.H(true, w)
	c.V(true, h)
	c.H(true, -w)
	c.Z()
}

func (c *PathContext) PathData() string {
	return strings.Join(c.Commands, " ")
}
