// Package lgdoc reads poster description files.
//
// A poster file lists the birth date, optional grid settings, and the events,
// eras and era spans of a life. It is written in YAML or TOML:
//
//	birth: 1990-11-01
//	title: A life
//	events:
//	  - text: Moved
//	    date: 2006-08-23
//	eras:
//	  - text: College
//	    start: 2008-09-01
//	    end: 2012-05-15
//
// Document.Graph turns a parsed file into the registry calls it describes.
package lgdoc

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/lifegraph/lggraph"
	"oss.terrastruct.com/lifegraph/lib/color"
	"oss.terrastruct.com/lifegraph/lib/geo"
	"oss.terrastruct.com/lifegraph/lib/label"
	timelib "oss.terrastruct.com/lifegraph/lib/time"
)

type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

var ErrUnknownFormat = errors.New("unknown poster file format")

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("%w: %q, expected .yml, .yaml or .toml", ErrUnknownFormat, filepath.Ext(path))
	}
}

// ParseError locates a bad value in a poster file.
type ParseError struct {
	// Section is the list the item is in, events, eras or spans, or empty
	// for top level fields.
	Section string
	Index   int
	Field   string
	Err     error
}

func (pe *ParseError) Error() string {
	if pe.Section == "" {
		return fmt.Sprintf("%s: %v", pe.Field, pe.Err)
	}
	if pe.Field == "" {
		return fmt.Sprintf("%s[%d]: %v", pe.Section, pe.Index, pe.Err)
	}
	return fmt.Sprintf("%s[%d].%s: %v", pe.Section, pe.Index, pe.Field, pe.Err)
}

func (pe *ParseError) Unwrap() error {
	return pe.Err
}

// Date is a calendar date written as YYYY-MM-DD.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalText(b []byte) error {
	s := string(b)
	// TOML dates arrive as timestamps
	if len(s) > 10 && s[10] == 'T' {
		s = s[:10]
	}
	t, err := timelib.ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(timelib.FormatDate(d.Time)), nil
}

type Point struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
}

// Config overrides lggraph.DefaultConfig field by field.
type Config struct {
	WeeksPerYear *int     `yaml:"weeks_per_year" toml:"weeks_per_year"`
	MaxAge       *int     `yaml:"max_age" toml:"max_age"`
	LeftOffset   *float64 `yaml:"left_offset" toml:"left_offset"`
	RightOffset  *float64 `yaml:"right_offset" toml:"right_offset"`
	Epsilon      *float64 `yaml:"epsilon" toml:"epsilon"`
	EdgeMargin   *float64 `yaml:"edge_margin" toml:"edge_margin"`
	SpanRadius   *float64 `yaml:"span_radius" toml:"span_radius"`
	FontSize     *float64 `yaml:"font_size" toml:"font_size"`
}

type Event struct {
	Text        string  `yaml:"text" toml:"text"`
	Date        Date    `yaml:"date" toml:"date"`
	Color       string  `yaml:"color" toml:"color"`
	Hint        *Point  `yaml:"hint" toml:"hint"`
	Side        string  `yaml:"side" toml:"side"`
	ColorSquare *bool   `yaml:"color_square" toml:"color_square"`
	FontSize    float64 `yaml:"font_size" toml:"font_size"`
}

type Era struct {
	Text     string   `yaml:"text" toml:"text"`
	Start    Date     `yaml:"start" toml:"start"`
	End      Date     `yaml:"end" toml:"end"`
	Color    string   `yaml:"color" toml:"color"`
	Side     string   `yaml:"side" toml:"side"`
	Alpha    *float64 `yaml:"alpha" toml:"alpha"`
	FontSize float64  `yaml:"font_size" toml:"font_size"`
}

type Span struct {
	Text         string  `yaml:"text" toml:"text"`
	Start        Date    `yaml:"start" toml:"start"`
	End          Date    `yaml:"end" toml:"end"`
	Color        string  `yaml:"color" toml:"color"`
	Hint         *Point  `yaml:"hint" toml:"hint"`
	Side         string  `yaml:"side" toml:"side"`
	ColorMarkers bool    `yaml:"color_markers" toml:"color_markers"`
	FontSize     float64 `yaml:"font_size" toml:"font_size"`
}

type Axes struct {
	X string `yaml:"x" toml:"x"`
	Y string `yaml:"y" toml:"y"`
}

// Document is a parsed poster file.
type Document struct {
	Birth         Date    `yaml:"birth" toml:"birth"`
	Title         string  `yaml:"title" toml:"title"`
	TitleFontSize float64 `yaml:"title_font_size" toml:"title_font_size"`
	Watermark     string  `yaml:"watermark" toml:"watermark"`
	ShowMaxAge    bool    `yaml:"show_max_age" toml:"show_max_age"`
	Axes          Axes    `yaml:"axes" toml:"axes"`
	// Palette colors the items that have none, in order. The default palette
	// is used when it is empty.
	Palette []string `yaml:"palette" toml:"palette"`
	Config  Config   `yaml:"config" toml:"config"`

	Events []Event `yaml:"events" toml:"events"`
	Eras   []Era   `yaml:"eras" toml:"eras"`
	Spans  []Span  `yaml:"spans" toml:"spans"`
}

// Parse decodes a poster file. Unknown fields are errors.
func Parse(format Format, data []byte) (_ *Document, err error) {
	defer xdefer.Errorf(&err, "failed to parse %s poster file", format)

	doc := &Document{}
	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(doc); err != nil {
			return nil, err
		}
	case TOML:
		md, err := toml.Decode(string(data), doc)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown field %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if doc.Birth.IsZero() {
		return nil, &ParseError{Field: "birth", Err: errMissingDate}
	}
	return doc, nil
}

// ParseFile decodes data in the format named by path's extension.
func ParseFile(path string, data []byte) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return Parse(format, data)
}

// GraphConfig is lggraph.DefaultConfig with the document's overrides applied.
func (d *Document) GraphConfig() *lggraph.Config {
	cfg := lggraph.DefaultConfig()
	c := d.Config
	if c.WeeksPerYear != nil {
		cfg.WeeksPerYear = *c.WeeksPerYear
	}
	if c.MaxAge != nil {
		cfg.MaxAge = *c.MaxAge
	}
	if c.LeftOffset != nil {
		cfg.LeftOffset = *c.LeftOffset
	}
	if c.RightOffset != nil {
		cfg.RightOffset = *c.RightOffset
	}
	if c.Epsilon != nil {
		cfg.LabelSpaceEpsilon = *c.Epsilon
	}
	if c.EdgeMargin != nil {
		cfg.EdgeMargin = *c.EdgeMargin
	}
	if c.SpanRadius != nil {
		cfg.SpanRadius = *c.SpanRadius
	}
	if c.FontSize != nil {
		cfg.FontSize = *c.FontSize
	}
	return cfg
}

func (d *Document) palette() (color.Palette, error) {
	if len(d.Palette) == 0 {
		return color.DefaultPalette(), nil
	}
	p, err := color.NewCycle(d.Palette...)
	if err != nil {
		return nil, &ParseError{Field: "palette", Err: err}
	}
	return p, nil
}

// Graph registers everything d describes: events first, then eras, then
// spans, each in file order. The first bad item stops it.
func (d *Document) Graph() (_ *lggraph.Graph, err error) {
	defer xdefer.Errorf(&err, "failed to build poster")

	palette, err := d.palette()
	if err != nil {
		return nil, err
	}
	g, err := lggraph.New(d.Birth.Time, d.GraphConfig(), palette)
	if err != nil {
		return nil, &ParseError{Field: "config", Err: err}
	}

	for i, e := range d.Events {
		side, err := label.SideFromString(e.Side)
		if err != nil {
			return nil, &ParseError{Section: "events", Index: i, Field: "side", Err: err}
		}
		if e.Date.IsZero() {
			return nil, &ParseError{Section: "events", Index: i, Field: "date", Err: errMissingDate}
		}
		err = g.AddLifeEvent(e.Text, e.Date.Time, &lggraph.EventOpts{
			Color:       e.Color,
			Hint:        e.Hint.point(),
			Side:        side,
			ColorSquare: e.ColorSquare,
			FontSize:    e.FontSize,
		})
		if err != nil {
			return nil, &ParseError{Section: "events", Index: i, Err: err}
		}
	}

	for i, e := range d.Eras {
		side, err := label.SideFromString(e.Side)
		if err != nil {
			return nil, &ParseError{Section: "eras", Index: i, Field: "side", Err: err}
		}
		if field := missingDate(e.Start, e.End); field != "" {
			return nil, &ParseError{Section: "eras", Index: i, Field: field, Err: errMissingDate}
		}
		err = g.AddEra(e.Text, e.Start.Time, e.End.Time, &lggraph.EraOpts{
			Color:    e.Color,
			Side:     side,
			Alpha:    e.Alpha,
			FontSize: e.FontSize,
		})
		if err != nil {
			return nil, &ParseError{Section: "eras", Index: i, Err: err}
		}
	}

	for i, s := range d.Spans {
		side, err := label.SideFromString(s.Side)
		if err != nil {
			return nil, &ParseError{Section: "spans", Index: i, Field: "side", Err: err}
		}
		if field := missingDate(s.Start, s.End); field != "" {
			return nil, &ParseError{Section: "spans", Index: i, Field: field, Err: errMissingDate}
		}
		err = g.AddEraSpan(s.Text, s.Start.Time, s.End.Time, &lggraph.EraSpanOpts{
			Color:        s.Color,
			Hint:         s.Hint.point(),
			Side:         side,
			ColorMarkers: s.ColorMarkers,
			FontSize:     s.FontSize,
		})
		if err != nil {
			return nil, &ParseError{Section: "spans", Index: i, Err: err}
		}
	}

	if d.Title != "" {
		g.SetTitle(d.Title, d.TitleFontSize)
	}
	if d.Watermark != "" {
		g.SetWatermark(d.Watermark)
	}
	if d.ShowMaxAge {
		g.ShowMaxAgeLabel()
	}
	g.SetAxisLabels(d.Axes.X, d.Axes.Y)
	return g, nil
}

var errMissingDate = errors.New("missing date")

// missingDate names the first missing end of a range, if any.
func missingDate(start, end Date) string {
	if start.IsZero() {
		return "start"
	}
	if end.IsZero() {
		return "end"
	}
	return ""
}

func (p *Point) point() *geo.Point {
	if p == nil {
		return nil
	}
	gp := geo.NewPoint(p.X, p.Y)
	return &gp
}
