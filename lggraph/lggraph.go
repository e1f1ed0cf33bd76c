// Package lggraph is the registry of everything drawn on a lifetime poster:
// life events, eras and era spans, each with the annotation that labels it.
//
// Every Add method validates all of its inputs before it changes the graph,
// so a failed call leaves the graph as it was. A Graph is not safe for
// concurrent use.
package lggraph

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/lifegraph/lggrid"
	"oss.terrastruct.com/lifegraph/lgtarget"
	"oss.terrastruct.com/lifegraph/lib/color"
	"oss.terrastruct.com/lifegraph/lib/geo"
	"oss.terrastruct.com/lifegraph/lib/go2"
	"oss.terrastruct.com/lifegraph/lib/label"
	timelib "oss.terrastruct.com/lifegraph/lib/time"
)

var (
	ErrInvertedRange = errors.New("start date is after end date")
	ErrEmptyText     = errors.New("label text must not be empty")
)

type Graph struct {
	Birth time.Time

	cfg     Config
	mapper  *lggrid.Mapper
	palette color.Palette

	annotations []lgtarget.Annotation
	spans       []lgtarget.Span

	presentation Presentation
}

// Presentation is what the poster shows besides the grid and its annotations.
type Presentation struct {
	Title         string
	TitleFontSize float64
	Watermark     string
	ShowMaxAge    bool
	Axes          lgtarget.AxisLabels
}

// New returns an empty graph for a life starting at birth. A nil cfg means
// DefaultConfig and a nil palette means color.DefaultPalette.
func New(birth time.Time, cfg *Config, palette color.Palette) (_ *Graph, err error) {
	defer xdefer.Errorf(&err, "failed to create graph")

	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if birth.IsZero() {
		return nil, fmt.Errorf("%w: missing birth date", ErrInvalidConfig)
	}
	mapper, err := lggrid.NewMapper(birth, cfg.WeeksPerYear, cfg.MaxAge)
	if err != nil {
		return nil, err
	}
	if palette == nil {
		palette = color.DefaultPalette()
	}

	return &Graph{
		Birth:   timelib.Day(birth),
		cfg:     *cfg,
		mapper:  mapper,
		palette: palette,
		presentation: Presentation{
			TitleFontSize: lgtarget.DEFAULT_TITLE_FONT_SIZE,
			Axes: lgtarget.AxisLabels{
				X: lgtarget.DEFAULT_X_AXIS_LABEL,
				Y: lgtarget.DEFAULT_Y_AXIS_LABEL,
			},
		},
	}, nil
}

// Config returns a copy of the graph's config.
func (g *Graph) Config() Config {
	return g.cfg
}

func (g *Graph) Mapper() *lggrid.Mapper {
	m := *g.mapper
	return &m
}

// EventOpts are the optional settings of a life event.
type EventOpts struct {
	// Color is any CSS color. Drawn from the palette when empty.
	Color string
	// Hint suggests where the label goes. Mutually exclusive with Side.
	Hint *geo.Point
	// Side forces the label to one side of the grid. Mutually exclusive with Hint.
	Side label.Side
	// ColorSquare marks the event's cell in the event's color. Defaults to true.
	ColorSquare *bool
	// FontSize overrides Config.FontSize when positive.
	FontSize float64
}

type EraOpts struct {
	Color string
	Side  label.Side
	// Alpha is the band's opacity, lgtarget.DEFAULT_ERA_ALPHA when nil.
	Alpha    *float64
	FontSize float64
}

type EraSpanOpts struct {
	Color string
	Hint  *geo.Point
	Side  label.Side
	// ColorMarkers marks the start and end cells in the span's color.
	ColorMarkers bool
	FontSize     float64
}

// AddLifeEvent labels the cell of a single date.
func (g *Graph) AddLifeEvent(text string, date time.Time, opts *EventOpts) (err error) {
	defer xdefer.Errorf(&err, "failed to add life event %q", text)

	if opts == nil {
		opts = &EventOpts{}
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if err := checkPlacement(opts.Hint, opts.Side); err != nil {
		return err
	}
	if err := validateColor(opts.Color); err != nil {
		return err
	}
	fontSize, err := g.fontSize(opts.FontSize)
	if err != nil {
		return err
	}
	pos, err := g.mapper.Map(date)
	if err != nil {
		return err
	}

	eventPoint := pos.Point()
	defaultX := 0.
	if eventPoint.X >= g.cfg.XMax()/2 {
		defaultX = g.cfg.XMax()
	}
	labelPoint, err := g.resolveLabelPoint(opts.Hint, opts.Side, defaultX, eventPoint.Y, false)
	if err != nil {
		return err
	}

	c := g.color(opts.Color)
	var marker *lgtarget.Marker
	if go2.Deref(opts.ColorSquare, true) {
		marker = lgtarget.NewMarker(eventPoint, c)
	}

	g.annotations = append(g.annotations, lgtarget.Annotation{
		Kind:             lgtarget.EventAnnotation,
		Text:             text,
		SortKey:          pos.Date,
		SortPosition:     pos,
		Color:            c,
		FontSize:         fontSize,
		EventPoint:       eventPoint,
		DrawMarkerCircle: true,
		Marker:           marker,
		Anchor:           lgtarget.LabelAnchor{Point: labelPoint},
	})
	return nil
}

// AddEra shades the cells from start to end and labels the band.
func (g *Graph) AddEra(text string, start, end time.Time, opts *EraOpts) (err error) {
	defer xdefer.Errorf(&err, "failed to add era %q", text)

	if opts == nil {
		opts = &EraOpts{}
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if err := validateColor(opts.Color); err != nil {
		return err
	}
	alpha := go2.Deref(opts.Alpha, lgtarget.DEFAULT_ERA_ALPHA)
	if alpha < 0 || alpha > 1 || math.IsNaN(alpha) {
		return fmt.Errorf("alpha must be within [0, 1], got %v", alpha)
	}
	fontSize, err := g.fontSize(opts.FontSize)
	if err != nil {
		return err
	}
	startPos, endPos, midPos, err := g.mapRange(start, end)
	if err != nil {
		return err
	}

	labelPoint, err := g.resolveLabelPoint(nil, opts.Side, g.cfg.XMax(), float64(midPos.Year), true)
	if err != nil {
		return err
	}

	c := g.color(opts.Color)
	g.spans = append(g.spans, lgtarget.Span{
		Kind:  lgtarget.Band,
		Text:  text,
		Start: startPos,
		End:   endPos,
		Color: c,
		Alpha: alpha,
	})
	g.annotations = append(g.annotations, lgtarget.Annotation{
		Kind:         lgtarget.EraAnnotation,
		Text:         text,
		SortKey:      midPos.Date,
		SortPosition: midPos,
		Color:        c,
		FontSize:     fontSize,
		EventPoint:   labelPoint,
		Anchor:       lgtarget.LabelAnchor{Point: labelPoint},
	})
	return nil
}

// AddEraSpan joins the cells of start and end with a dumbbell and labels it.
func (g *Graph) AddEraSpan(text string, start, end time.Time, opts *EraSpanOpts) (err error) {
	defer xdefer.Errorf(&err, "failed to add era span %q", text)

	if opts == nil {
		opts = &EraSpanOpts{}
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if err := checkPlacement(opts.Hint, opts.Side); err != nil {
		return err
	}
	if err := validateColor(opts.Color); err != nil {
		return err
	}
	fontSize, err := g.fontSize(opts.FontSize)
	if err != nil {
		return err
	}
	startPos, endPos, midPos, err := g.mapRange(start, end)
	if err != nil {
		return err
	}

	labelPoint, err := g.resolveLabelPoint(opts.Hint, opts.Side, g.cfg.XMax(), float64(midPos.Year), false)
	if err != nil {
		return err
	}

	c := g.color(opts.Color)
	span := lgtarget.Span{
		Kind:   lgtarget.Dumbbell,
		Text:   text,
		Start:  startPos,
		End:    endPos,
		Color:  c,
		Alpha:  1,
		Radius: g.cfg.SpanRadius,
	}
	if opts.ColorMarkers {
		span.StartMarker = lgtarget.NewMarker(startPos.Point(), c)
		span.EndMarker = lgtarget.NewMarker(endPos.Point(), c)
	}
	g.spans = append(g.spans, span)

	g.annotations = append(g.annotations, lgtarget.Annotation{
		Kind:         lgtarget.SpanAnnotation,
		Text:         text,
		SortKey:      midPos.Date,
		SortPosition: midPos,
		Color:        c,
		FontSize:     fontSize,
		EventPoint:   startPos.Point().Midpoint(endPos.Point()),
		Anchor:       lgtarget.LabelAnchor{Point: labelPoint},
	})
	return nil
}

// mapRange maps both ends of a date range and its midpoint.
func (g *Graph) mapRange(start, end time.Time) (startPos, endPos, midPos lggrid.Position, err error) {
	if timelib.Day(start).After(timelib.Day(end)) {
		return startPos, endPos, midPos, fmt.Errorf("%w: %s > %s", ErrInvertedRange, timelib.FormatDate(start), timelib.FormatDate(end))
	}
	startPos, err = g.mapper.Map(start)
	if err != nil {
		return startPos, endPos, midPos, err
	}
	endPos, err = g.mapper.Map(end)
	if err != nil {
		return startPos, endPos, midPos, err
	}
	midPos, err = g.mapper.Map(lggrid.Midpoint(startPos.Date, endPos.Date))
	return startPos, endPos, midPos, err
}

func (g *Graph) fontSize(fontSize float64) (float64, error) {
	if fontSize < 0 || math.IsNaN(fontSize) || math.IsInf(fontSize, 0) {
		return 0, fmt.Errorf("font size must be a positive number, got %v", fontSize)
	}
	if fontSize == 0 {
		return g.cfg.FontSize, nil
	}
	return fontSize, nil
}

func validateColor(c string) error {
	if c == "" {
		return nil
	}
	return color.Validate(c)
}

// color must only be called once the record using it is known to be valid so
// that failed calls do not advance the palette.
func (g *Graph) color(c string) string {
	if c != "" {
		return c
	}
	return g.palette.Next()
}

func (g *Graph) SetTitle(text string, fontSize float64) {
	g.presentation.Title = text
	if fontSize > 0 {
		g.presentation.TitleFontSize = fontSize
	}
}

func (g *Graph) SetWatermark(text string) {
	g.presentation.Watermark = text
}

func (g *Graph) ShowMaxAgeLabel() {
	g.presentation.ShowMaxAge = true
}

// SetAxisLabels replaces the axis labels. An empty label keeps the current one.
func (g *Graph) SetAxisLabels(x, y string) {
	if x != "" {
		g.presentation.Axes.X = x
	}
	if y != "" {
		g.presentation.Axes.Y = y
	}
}

func (g *Graph) Presentation() Presentation {
	return g.presentation
}

// Annotations returns a copy of the registered annotations in registration order.
func (g *Graph) Annotations() []lgtarget.Annotation {
	out := make([]lgtarget.Annotation, 0, len(g.annotations))
	for _, a := range g.annotations {
		out = append(out, a.Copy())
	}
	return out
}

// Spans returns a copy of the registered eras and era spans in registration order.
func (g *Graph) Spans() []lgtarget.Span {
	out := make([]lgtarget.Span, 0, len(g.spans))
	for _, s := range g.spans {
		out = append(out, s.Copy())
	}
	return out
}
