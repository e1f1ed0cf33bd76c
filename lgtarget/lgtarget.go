// Package lgtarget holds the finished layout of a poster: every annotation with
// its resolved label box and every era band and span with its geometry.
// Renderers consume a Poster and nothing else.
package lgtarget

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"oss.terrastruct.com/lifegraph/lggrid"
	"oss.terrastruct.com/lifegraph/lib/geo"
	"oss.terrastruct.com/lifegraph/lib/label"
)

const (
	DEFAULT_FONT_SIZE           = 12.
	DEFAULT_TITLE_FONT_SIZE     = 28.
	DEFAULT_WATERMARK_FONT_SIZE = 80.
	DEFAULT_MAX_AGE_FONT_SIZE   = 10.
	DEFAULT_AXIS_FONT_SIZE      = 12.

	DEFAULT_ERA_ALPHA   = 0.3
	DEFAULT_SPAN_RADIUS = 0.5

	// MAX_AGE_LABEL_OFFSET is how far right of the grid the max age label sits.
	MAX_AGE_LABEL_OFFSET = 3.

	DEFAULT_X_AXIS_LABEL = "Week of the Year →"
	DEFAULT_Y_AXIS_LABEL = "← Age"
)

type AnnotationKind string

const (
	EventAnnotation AnnotationKind = "event"
	EraAnnotation   AnnotationKind = "era"
	SpanAnnotation  AnnotationKind = "span"
)

type SpanKind string

const (
	// Band is an era: rows of the grid shaded between two dates.
	Band SpanKind = "band"
	// Dumbbell is an era span: two circled cells joined by a line.
	Dumbbell SpanKind = "dumbbell"
)

type MarkerShape string

const (
	MarkerSquare MarkerShape = "square"
	MarkerCircle MarkerShape = "circle"
)

type FillStyle string

const (
	FillNone FillStyle = "none"
	FillFull FillStyle = "full"
)

// LabelAnchor is where a label's text starts and where its arrow leaves it.
type LabelAnchor struct {
	geo.Point
	ArrowOrigin label.ArrowOrigin `json:"arrowOrigin"`
}

// Marker highlights one grid cell.
type Marker struct {
	geo.Point
	Shape MarkerShape `json:"shape"`
	Fill  FillStyle   `json:"fill"`
	Color string      `json:"color"`
}

func NewMarker(p geo.Point, color string) *Marker {
	return &Marker{
		Point: p,
		Shape: MarkerSquare,
		Fill:  FillNone,
		Color: color,
	}
}

// Annotation is a text label pointing at a spot on the grid.
type Annotation struct {
	Kind AnnotationKind `json:"kind"`
	Text string         `json:"text"`

	// SortKey is the date that orders the annotation among its neighbours:
	// the event date, or the midpoint of an era or span.
	SortKey      time.Time       `json:"sortKey"`
	SortPosition lggrid.Position `json:"sortPosition"`

	Color    string  `json:"color"`
	FontSize float64 `json:"fontSize"`

	EventPoint       geo.Point `json:"eventPoint"`
	DrawMarkerCircle bool      `json:"drawMarkerCircle"`
	Marker           *Marker   `json:"marker,omitempty"`

	Anchor LabelAnchor `json:"anchor"`
	// Box is the label's extent once measured, empty before.
	Box  geo.BoundingBox `json:"box"`
	Side label.Side      `json:"side,omitempty"`
}

// Copy returns a with its marker copied too.
func (a Annotation) Copy() Annotation {
	if a.Marker != nil {
		m := *a.Marker
		a.Marker = &m
	}
	return a
}

func (a Annotation) String() string {
	return fmt.Sprintf("%s %q at %v", a.Kind, a.Text, a.Anchor.Point)
}

// ArrowStart is the point on the label box the arrow leaves from.
func (a Annotation) ArrowStart() geo.Point {
	return a.Anchor.ArrowOrigin.PointOnBox(a.Box)
}

// Span is an era (Band) or an era span (Dumbbell).
type Span struct {
	Kind  SpanKind        `json:"kind"`
	Text  string          `json:"text"`
	Start lggrid.Position `json:"start"`
	End   lggrid.Position `json:"end"`
	Color string          `json:"color"`
	Alpha float64         `json:"alpha"`

	// Dumbbell only.
	StartMarker *Marker      `json:"startMarker,omitempty"`
	EndMarker   *Marker      `json:"endMarker,omitempty"`
	Connector   *geo.Segment `json:"connector,omitempty"`
	Radius      float64      `json:"radius,omitempty"`
}

func (s Span) Copy() Span {
	if s.StartMarker != nil {
		m := *s.StartMarker
		s.StartMarker = &m
	}
	if s.EndMarker != nil {
		m := *s.EndMarker
		s.EndMarker = &m
	}
	if s.Connector != nil {
		c := *s.Connector
		s.Connector = &c
	}
	return s
}

// BandRow is the shaded part of one grid row, in grid coordinates.
type BandRow struct {
	Y    float64 `json:"y"`
	XMin float64 `json:"xmin"`
	XMax float64 `json:"xmax"`
}

// Rows splits a band into one shaded strip per row on a grid of weeks columns.
// The first row runs from the start week to the right edge, the last row from
// the left edge to the end week and the rows between are shaded fully.
func (s Span) Rows(weeks int) []BandRow {
	left := 0.5
	right := float64(weeks) + 0.5

	var rows []BandRow
	for y := s.Start.Year; y <= s.End.Year; y++ {
		row := BandRow{
			Y:    float64(y),
			XMin: left,
			XMax: right,
		}
		if y == s.Start.Year {
			row.XMin = float64(s.Start.Week) - 0.5
		}
		if y == s.End.Year {
			row.XMax = float64(s.End.Week) + 0.5
		}
		rows = append(rows, row)
	}
	return rows
}

// Style holds the sizes renderers draw with. Font sizes are in pixels, the rest
// in grid units.
type Style struct {
	FontSize          float64 `json:"fontSize"`
	TitleFontSize     float64 `json:"titleFontSize"`
	WatermarkFontSize float64 `json:"watermarkFontSize"`
	MaxAgeFontSize    float64 `json:"maxAgeFontSize"`
	AxisFontSize      float64 `json:"axisFontSize"`

	// MarkerSize is the side of a cell marker.
	MarkerSize float64 `json:"markerSize"`
	// CircleRadius is the radius of the circle around an event's cell.
	CircleRadius float64 `json:"circleRadius"`
	LineWidth    float64 `json:"lineWidth"`
	EdgeWidth    float64 `json:"edgeWidth"`
	WatermarkRot float64 `json:"watermarkRotation"`
}

func DefaultStyle() Style {
	return Style{
		FontSize:          DEFAULT_FONT_SIZE,
		TitleFontSize:     DEFAULT_TITLE_FONT_SIZE,
		WatermarkFontSize: DEFAULT_WATERMARK_FONT_SIZE,
		MaxAgeFontSize:    DEFAULT_MAX_AGE_FONT_SIZE,
		AxisFontSize:      DEFAULT_AXIS_FONT_SIZE,
		MarkerSize:        0.7,
		CircleRadius:      0.7,
		LineWidth:         0.1,
		EdgeWidth:         0.1,
		WatermarkRot:      65,
	}
}

type AxisLabels struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// Poster is a fully laid out lifetime grid.
type Poster struct {
	Birth  time.Time `json:"birth"`
	Weeks  int       `json:"weeks"`
	MaxAge int       `json:"maxAge"`

	XMin float64 `json:"xmin"`
	XMax float64 `json:"xmax"`
	YMin float64 `json:"ymin"`
	YMax float64 `json:"ymax"`

	// Annotations are the left labels followed by the right labels, each side
	// in the order it was resolved.
	Annotations []Annotation `json:"annotations"`
	// Spans are in registration order.
	Spans []Span `json:"spans"`

	Title      string     `json:"title,omitempty"`
	Watermark  string     `json:"watermark,omitempty"`
	ShowMaxAge bool       `json:"showMaxAge"`
	Axes       AxisLabels `json:"axes"`
	Style      Style      `json:"style"`
}

// GridBox is the extent of the week cells.
func (p Poster) GridBox() geo.BoundingBox {
	return geo.NewBoundingBox(0.5, float64(p.Weeks)+0.5, p.YMin, float64(p.MaxAge)-0.5)
}

// MaxAgeLabelPoint is where the max age label is drawn, bottom-centered.
func (p Poster) MaxAgeLabelPoint() geo.Point {
	return geo.NewPoint(p.XMax+MAX_AGE_LABEL_OFFSET, p.YMax)
}

// BoundingBox covers the grid, every label, every event circle and the max age label.
func (p Poster) BoundingBox() geo.BoundingBox {
	box := p.GridBox()
	for _, a := range p.Annotations {
		if !a.Box.Empty() {
			box = box.Union(a.Box)
		}
		r := p.Style.CircleRadius
		box = box.Union(geo.NewBoundingBox(a.EventPoint.X-r, a.EventPoint.X+r, a.EventPoint.Y-r, a.EventPoint.Y+r))
	}
	if p.ShowMaxAge {
		m := p.MaxAgeLabelPoint()
		box = box.Union(geo.NewBoundingBox(m.X-1, m.X+1, m.Y-1, m.Y))
	}
	return box
}

func (p Poster) Bytes() ([]byte, error) {
	return json.Marshal(p)
}

// HashID identifies the poster's content. Renderers use it to namespace ids.
func (p Poster) HashID() (string, error) {
	b, err := p.Bytes()
	if err != nil {
		return "", err
	}
	h := fnv.New32a()
	h.Write(b)
	// CSS names can't start with numbers, so prepend a little something
	return fmt.Sprintf("lg-%d", h.Sum32()), nil
}
