// Package lglayout places annotation labels beside the grid so that no two
// labels on the same side overlap.
//
// Placement happens in three steps. Each label is measured and assigned to
// the left or the right of the grid. Each side is then ordered so that arrows
// cross as little as possible. Finally the labels of a side are placed one by
// one, each moved down until it clears every label placed before it.
package lglayout

import (
	"context"
	"errors"
	"fmt"
	"math"

	"cdr.dev/slog"
	"golang.org/x/exp/slices"

	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/lifegraph/lggraph"
	"oss.terrastruct.com/lifegraph/lgtarget"
	"oss.terrastruct.com/lifegraph/lib/geo"
	"oss.terrastruct.com/lifegraph/lib/label"
	"oss.terrastruct.com/lifegraph/lib/log"
)

var ErrInvalidComparison = errors.New("invalid comparison")

// Oracle measures label text. Sizes are in grid units.
type Oracle interface {
	Measure(text string, fontSize float64) (width, height float64)
}

type Config struct {
	XMin              float64
	XMax              float64
	YMax              float64
	LeftOffset        float64
	RightOffset       float64
	LabelSpaceEpsilon float64
}

func NewConfig(cfg lggraph.Config) Config {
	return Config{
		XMin:              cfg.XMin(),
		XMax:              cfg.XMax(),
		YMax:              cfg.YMax(),
		LeftOffset:        cfg.LeftOffset,
		RightOffset:       cfg.RightOffset,
		LabelSpaceEpsilon: cfg.LabelSpaceEpsilon,
	}
}

// Layout resolves the labels of g and computes the connectors of its era spans.
func Layout(ctx context.Context, g *lggraph.Graph, oracle Oracle) (_ *lgtarget.Poster, err error) {
	defer xdefer.Errorf(&err, "failed to lay out poster")

	cfg := g.Config()
	annotations, err := Resolve(ctx, g.Annotations(), oracle, NewConfig(cfg))
	if err != nil {
		return nil, err
	}

	spans := g.Spans()
	for i := range spans {
		if spans[i].Kind != lgtarget.Dumbbell {
			continue
		}
		connector := geo.CircleConnector(spans[i].Start.Point(), spans[i].End.Point(), spans[i].Radius)
		spans[i].Connector = &connector
	}

	p := g.Presentation()
	style := lgtarget.DefaultStyle()
	style.FontSize = cfg.FontSize
	style.TitleFontSize = p.TitleFontSize

	log.Debug(ctx, "laid out poster",
		slog.F("annotations", len(annotations)),
		slog.F("spans", len(spans)),
	)

	return &lgtarget.Poster{
		Birth:       g.Birth,
		Weeks:       cfg.WeeksPerYear,
		MaxAge:      cfg.MaxAge,
		XMin:        cfg.XMin(),
		XMax:        cfg.XMax(),
		YMin:        cfg.YMin(),
		YMax:        cfg.YMax(),
		Annotations: annotations,
		Spans:       spans,
		Title:       p.Title,
		Watermark:   p.Watermark,
		ShowMaxAge:  p.ShowMaxAge,
		Axes:        p.Axes,
		Style:       style,
	}, nil
}

// Resolve returns annotations with their labels measured and placed. The left
// labels come first, then the right ones, each side in placement order.
//
// annotations is not modified, so resolving the same input twice gives the same result.
func Resolve(ctx context.Context, annotations []lgtarget.Annotation, oracle Oracle, cfg Config) ([]lgtarget.Annotation, error) {
	var left, right []lgtarget.Annotation
	for _, a := range annotations {
		a = a.Copy()
		w, h := oracle.Measure(a.Text, a.FontSize)
		a = cfg.bucket(a, w, h)
		if a.Side == label.Left {
			left = append(left, a)
		} else {
			right = append(right, a)
		}
	}
	log.Debug(ctx, "bucketed labels", slog.F("left", len(left)), slog.F("right", len(right)))

	// Arrows cross the least when the left side is read left to right and the
	// right side right to left, row by row.
	slices.SortStableFunc(left, func(a, b lgtarget.Annotation) bool {
		if a.SortPosition.Year != b.SortPosition.Year {
			return a.SortPosition.Year < b.SortPosition.Year
		}
		return a.SortPosition.Week < b.SortPosition.Week
	})
	slices.SortStableFunc(right, func(a, b lgtarget.Annotation) bool {
		if a.SortPosition.Year != b.SortPosition.Year {
			return a.SortPosition.Year < b.SortPosition.Year
		}
		return a.SortPosition.Week > b.SortPosition.Week
	})

	placedLeft, err := place(ctx, left, cfg.LabelSpaceEpsilon)
	if err != nil {
		return nil, err
	}
	placedRight, err := place(ctx, right, cfg.LabelSpaceEpsilon)
	if err != nil {
		return nil, err
	}
	return append(placedLeft, placedRight...), nil
}

// bucket measures a's label at its anchor and picks its side of the grid.
//
// A label anchored on a row is moved clear of the grid: to RightOffset past
// the right edge when it starts in the right half, or ending LeftOffset
// before the left edge when it starts in the left half. Anchors already
// beyond those offsets are hints and keep their x. Labels above or below the
// grid stay where they are and go on the right.
func (cfg Config) bucket(a lgtarget.Annotation, w, h float64) lgtarget.Annotation {
	x, y := a.Anchor.X, a.Anchor.Y
	half := cfg.XMax / 2

	switch {
	case y >= 0 && y <= cfg.YMax:
		if (x >= half && x < cfg.XMax) || (x >= cfg.XMax && x < cfg.XMax+cfg.RightOffset) {
			x = cfg.XMax + cfg.RightOffset
		} else if (x >= 0 && x < half) || (x <= cfg.XMin && x > cfg.XMin-cfg.LeftOffset) {
			x = cfg.XMin - cfg.LeftOffset - w
		}
		if x >= half {
			a.Side = label.Right
			a.Anchor.ArrowOrigin = label.LeftCenter
		} else {
			a.Side = label.Left
			a.Anchor.ArrowOrigin = label.RightCenter
		}
	case y < 0:
		a.Side = label.Right
		a.Anchor.ArrowOrigin = label.BottomCenter
	default:
		a.Side = label.Right
		a.Anchor.ArrowOrigin = label.TopCenter
	}

	a.Anchor.X = x
	a.Box = geo.BoxAround(x, y, w, h)
	return a
}

// place moves each label down until it neither overlaps nor comes within
// epsilon of the labels placed before it. Placed labels never move.
func place(ctx context.Context, ordered []lgtarget.Annotation, epsilon float64) ([]lgtarget.Annotation, error) {
	placed := make([]lgtarget.Annotation, 0, len(ordered))
	for _, a := range ordered {
		a := a
		for corrected := true; corrected; {
			corrected = false
			for i := range placed {
				overlaps, err := Overlaps(&a, &placed[i])
				if err != nil {
					return nil, err
				}
				if overlaps {
					dy, err := YCorrection(&a, &placed[i], epsilon)
					if err != nil {
						return nil, err
					}
					log.Debug(ctx, "label overlaps",
						slog.F("label", a.Text),
						slog.F("other", placed[i].Text),
						slog.F("dy", dy),
					)
					a = shiftDown(a, dy)
					corrected = true
				}

				within, err := WithinEpsilon(&a, &placed[i], epsilon)
				if err != nil {
					return nil, err
				}
				if within && epsilon > 0 {
					log.Debug(ctx, "label too close",
						slog.F("label", a.Text),
						slog.F("other", placed[i].Text),
					)
					a = shiftDown(a, epsilon)
					corrected = true
				}
			}
		}
		placed = append(placed, a)
	}
	return placed, nil
}

func shiftDown(a lgtarget.Annotation, dy float64) lgtarget.Annotation {
	a.Box = a.Box.Translate(0, dy)
	a.Anchor.Y += dy
	return a
}

func checkComparable(a, b *lgtarget.Annotation) error {
	if a == nil || b == nil {
		return fmt.Errorf("%w: nil annotation", ErrInvalidComparison)
	}
	for _, x := range []*lgtarget.Annotation{a, b} {
		if x.Box.Empty() {
			return fmt.Errorf("%w: label %q has not been measured", ErrInvalidComparison, x.Text)
		}
	}
	return nil
}

// Overlaps reports whether the label boxes of a and b overlap. Touching boxes do not.
func Overlaps(a, b *lgtarget.Annotation) (bool, error) {
	if err := checkComparable(a, b); err != nil {
		return false, err
	}
	return a.Box.Overlaps(b.Box), nil
}

// WithinEpsilon reports whether the label boxes of a and b are at most epsilon apart.
func WithinEpsilon(a, b *lgtarget.Annotation, epsilon float64) (bool, error) {
	if err := checkComparable(a, b); err != nil {
		return false, err
	}
	return a.Box.WithinEpsilon(b.Box, epsilon), nil
}

// YCorrection is how far a must move down to sit epsilon below b.
func YCorrection(a, b *lgtarget.Annotation, epsilon float64) (float64, error) {
	if err := checkComparable(a, b); err != nil {
		return 0, err
	}
	return math.Abs(b.Box.YMax-a.Box.YMin) + epsilon, nil
}
