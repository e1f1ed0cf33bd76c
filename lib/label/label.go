// Package label holds the vocabulary shared by label placement and rendering:
// which side of the grid a label sits on and where on the label its arrow departs from.
package label

import (
	"fmt"
	"strings"

	"oss.terrastruct.com/lifegraph/lib/geo"
)

// Side is the side of the grid a label is placed on.
type Side int8

const (
	Unset Side = iota
	Left
	Right
)

func SideFromString(s string) (Side, error) {
	switch strings.ToUpper(s) {
	case "":
		return Unset, nil
	case "LEFT":
		return Left, nil
	case "RIGHT":
		return Right, nil
	default:
		return Unset, fmt.Errorf(`invalid side %q, expected "left" or "right"`, s)
	}
}

func (side Side) String() string {
	switch side {
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	default:
		return ""
	}
}

func (side Side) MarshalText() ([]byte, error) {
	return []byte(side.String()), nil
}

func (side *Side) UnmarshalText(b []byte) (err error) {
	*side, err = SideFromString(string(b))
	return err
}

// ArrowOrigin is the point on a label's bounding box that its connecting line starts from.
type ArrowOrigin int8

const (
	Center ArrowOrigin = iota
	LeftCenter
	RightCenter
	TopCenter
	BottomCenter
)

func ArrowOriginFromString(s string) ArrowOrigin {
	switch s {
	case "LEFT_CENTER":
		return LeftCenter
	case "RIGHT_CENTER":
		return RightCenter
	case "TOP_CENTER":
		return TopCenter
	case "BOTTOM_CENTER":
		return BottomCenter
	default:
		return Center
	}
}

func (o ArrowOrigin) String() string {
	switch o {
	case LeftCenter:
		return "LEFT_CENTER"
	case RightCenter:
		return "RIGHT_CENTER"
	case TopCenter:
		return "TOP_CENTER"
	case BottomCenter:
		return "BOTTOM_CENTER"
	default:
		return "CENTER"
	}
}

func (o ArrowOrigin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *ArrowOrigin) UnmarshalText(b []byte) error {
	*o = ArrowOriginFromString(string(b))
	return nil
}

// RelativePosition returns the origin as fractions of the box width and height,
// measured from the left and top edges.
func (o ArrowOrigin) RelativePosition() (float64, float64) {
	switch o {
	case LeftCenter:
		return 0, 0.5
	case RightCenter:
		return 1, 0.5
	case TopCenter:
		return 0.5, 0
	case BottomCenter:
		return 0.5, 1
	default:
		return 0.5, 0.5
	}
}

// PointOnBox is the origin's location on box.
func (o ArrowOrigin) PointOnBox(box geo.BoundingBox) geo.Point {
	rx, ry := o.RelativePosition()
	return geo.NewPoint(
		box.XMin+rx*box.Width(),
		box.YMin+ry*box.Height(),
	)
}

// ForSide is the origin used by labels flush against side: a label on the left
// points from its right edge toward the grid and vice versa.
func ForSide(side Side) ArrowOrigin {
	switch side {
	case Left:
		return RightCenter
	case Right:
		return LeftCenter
	default:
		return Center
	}
}
