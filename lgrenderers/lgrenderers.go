// Package lgrenderers draws a laid out poster onto a Surface.
//
// Draw decides what is drawn and in which order. Surfaces only know how to
// draw primitives, so a new output format only needs a new Surface.
package lgrenderers

import (
	"context"
	"strconv"

	"cdr.dev/slog"

	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/lifegraph/lgtarget"
	"oss.terrastruct.com/lifegraph/lib/geo"
	"oss.terrastruct.com/lifegraph/lib/log"
)

const (
	WATERMARK_COLOR = "gray"
	WATERMARK_ALPHA = 0.3
)

// Surface is what a poster is drawn on. Lengths are in grid units and font
// sizes in pixels.
type Surface interface {
	DrawGrid(Grid) error
	DrawCircle(c geo.Circle, color string, width float64) error
	DrawMarker(m lgtarget.Marker, size float64) error
	DrawLine(s geo.Segment, color string, width float64) error
	DrawFilledBand(row lgtarget.BandRow, color string, alpha float64) error
	DrawAnnotatedArrow(Arrow) error
	DrawText(Text) error
}

// Grid is the week cells with their axes.
type Grid struct {
	Weeks  int
	MaxAge int
	// Box is the extent of the cells.
	Box        geo.BoundingBox
	Axes       lgtarget.AxisLabels
	FontSize   float64
	MarkerSize float64
	EdgeWidth  float64
}

// XTicks are the week numbers labeled above the grid: the first week, then every fifth.
func (g Grid) XTicks() []int {
	ticks := []int{1}
	for w := 5; w <= g.Weeks; w += 5 {
		ticks = append(ticks, w)
	}
	return ticks
}

// YTicks are the ages labeled left of the grid, every fifth year.
func (g Grid) YTicks() []int {
	var ticks []int
	for y := 0; y < g.MaxAge; y += 5 {
		ticks = append(ticks, y)
	}
	return ticks
}

// Arrow is an annotation's text and the line from it to the annotated point.
type Arrow struct {
	Text     string
	Color    string
	FontSize float64
	// Box is where the text goes.
	Box   geo.BoundingBox
	Line  geo.Segment
	Width float64
}

type TextKind string

const (
	TitleText     TextKind = "title"
	WatermarkText TextKind = "watermark"
	MaxAgeText    TextKind = "max-age"
)

// Text is free text on the poster. Point is the center of the text, except
// for MaxAgeText where it is the bottom center.
type Text struct {
	Kind     TextKind
	Text     string
	Point    geo.Point
	FontSize float64
	Color    string
	Alpha    float64
	// Rotation is counterclockwise, in degrees.
	Rotation float64
}

// TitleOffset is how far above the grid the title sits.
const TitleOffset = 4.

// Draw draws p onto s: the grid, the annotations, the eras, the era spans,
// then the watermark, title and max age label on top.
func Draw(ctx context.Context, p *lgtarget.Poster, s Surface) (err error) {
	defer xdefer.Errorf(&err, "failed to draw poster")

	grid := p.GridBox()
	err = s.DrawGrid(Grid{
		Weeks:      p.Weeks,
		MaxAge:     p.MaxAge,
		Box:        grid,
		Axes:       p.Axes,
		FontSize:   p.Style.AxisFontSize,
		MarkerSize: p.Style.MarkerSize,
		EdgeWidth:  p.Style.EdgeWidth,
	})
	if err != nil {
		return err
	}

	for _, a := range p.Annotations {
		if err := drawAnnotation(p.Style, a, s); err != nil {
			return err
		}
	}
	log.Debug(ctx, "drew annotations", slog.F("count", len(p.Annotations)))

	for _, span := range p.Spans {
		if span.Kind != lgtarget.Band {
			continue
		}
		for _, row := range span.Rows(p.Weeks) {
			if err := s.DrawFilledBand(row, span.Color, span.Alpha); err != nil {
				return err
			}
		}
	}

	for _, span := range p.Spans {
		if span.Kind != lgtarget.Dumbbell {
			continue
		}
		if err := drawDumbbell(p.Style, span, s); err != nil {
			return err
		}
	}

	if p.Watermark != "" {
		err = s.DrawText(Text{
			Kind:     WatermarkText,
			Text:     p.Watermark,
			Point:    grid.Center(),
			FontSize: p.Style.WatermarkFontSize,
			Color:    WATERMARK_COLOR,
			Alpha:    WATERMARK_ALPHA,
			Rotation: p.Style.WatermarkRot,
		})
		if err != nil {
			return err
		}
	}
	if p.Title != "" {
		err = s.DrawText(Text{
			Kind:     TitleText,
			Text:     p.Title,
			Point:    geo.NewPoint(grid.Center().X, grid.YMin-TitleOffset),
			FontSize: p.Style.TitleFontSize,
			Alpha:    1,
		})
		if err != nil {
			return err
		}
	}
	if p.ShowMaxAge {
		err = s.DrawText(Text{
			Kind:     MaxAgeText,
			Text:     strconv.Itoa(p.MaxAge),
			Point:    p.MaxAgeLabelPoint(),
			FontSize: p.Style.MaxAgeFontSize,
			Alpha:    1,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func drawAnnotation(style lgtarget.Style, a lgtarget.Annotation, s Surface) error {
	line := geo.NewSegment(a.ArrowStart(), a.EventPoint)
	if a.DrawMarkerCircle {
		if err := s.DrawCircle(geo.NewCircle(a.EventPoint, style.CircleRadius), a.Color, style.EdgeWidth); err != nil {
			return err
		}
		// the arrow stops at the circle
		line = line.Shorten(style.CircleRadius)
	}
	if a.Marker != nil {
		if err := s.DrawMarker(*a.Marker, style.MarkerSize); err != nil {
			return err
		}
	}
	return s.DrawAnnotatedArrow(Arrow{
		Text:     a.Text,
		Color:    a.Color,
		FontSize: a.FontSize,
		Box:      a.Box,
		Line:     line,
		Width:    style.LineWidth,
	})
}

func drawDumbbell(style lgtarget.Style, span lgtarget.Span, s Surface) error {
	for _, center := range []geo.Point{span.Start.Point(), span.End.Point()} {
		if err := s.DrawCircle(geo.NewCircle(center, span.Radius), span.Color, style.EdgeWidth); err != nil {
			return err
		}
	}
	for _, m := range []*lgtarget.Marker{span.StartMarker, span.EndMarker} {
		if m == nil {
			continue
		}
		if err := s.DrawMarker(*m, style.MarkerSize); err != nil {
			return err
		}
	}
	connector := geo.CircleConnector(span.Start.Point(), span.End.Point(), span.Radius)
	if span.Connector != nil {
		connector = *span.Connector
	}
	return s.DrawLine(connector, span.Color, style.LineWidth)
}
