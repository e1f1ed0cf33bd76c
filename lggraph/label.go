package lggraph

import (
	"errors"

	"oss.terrastruct.com/lifegraph/lib/geo"
	"oss.terrastruct.com/lifegraph/lib/label"
)

var ErrConflictingPlacement = errors.New("hint and side are mutually exclusive, specify only one of them")

func checkPlacement(hint *geo.Point, side label.Side) error {
	if hint != nil && side != label.Unset {
		return ErrConflictingPlacement
	}
	return nil
}

// resolveLabelPoint picks the point a label starts from before conflicts are
// resolved: the sanitized hint, the edge of the requested side, or the defaults.
// Era labels placed on the left start one column in so that their arrow stays short.
func (g *Graph) resolveLabelPoint(hint *geo.Point, side label.Side, defaultX, defaultY float64, isEra bool) (geo.Point, error) {
	if err := checkPlacement(hint, side); err != nil {
		return geo.Point{}, err
	}

	p := geo.NewPoint(defaultX, defaultY)
	if hint != nil {
		p = g.sanitizeHint(*hint)
	}

	switch side {
	case label.Left:
		p.X = 0
		if isEra {
			p.X = 1
		}
	case label.Right:
		p.X = g.cfg.XMax()
	}
	return p, nil
}

// sanitizeHint pulls a hint for a label beside the grid out of the grid, or
// back toward it when the hint is too far away. Hints above or below the grid
// and hints within the edge margin beside it are kept.
func (g *Graph) sanitizeHint(hint geo.Point) geo.Point {
	xmax := g.cfg.XMax()
	edge := g.cfg.EdgeMargin
	if hint.Y < 0 || hint.Y > g.cfg.YMax() {
		return hint
	}
	if (hint.X >= xmax/2 && hint.X < xmax) || hint.X > xmax+edge {
		hint.X = xmax
	}
	if (hint.X > 0 && hint.X < xmax/2) || hint.X < -edge {
		hint.X = 0
	}
	return hint
}
