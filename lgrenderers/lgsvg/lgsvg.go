// lgsvg implements an SVG renderer for lifetime posters.
// The input is lglayout's output
package lgsvg

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/lifegraph/lgrenderers"
	"oss.terrastruct.com/lifegraph/lgtarget"
	"oss.terrastruct.com/lifegraph/lib/color"
	"oss.terrastruct.com/lifegraph/lib/fonts"
	"oss.terrastruct.com/lifegraph/lib/geo"
	"oss.terrastruct.com/lifegraph/lib/svg"
	"oss.terrastruct.com/lifegraph/lib/textmeasure"
	"oss.terrastruct.com/lifegraph/lib/version"
)

const (
	DEFAULT_PADDING = 40

	GRID_COLOR = "#444444"
	TEXT_COLOR = "#222222"

	// Offsets of the axes from the grid, in grid units.
	tickOffset      = 1.
	axisLabelOffset = 2.5
)

type RenderOpts struct {
	Pad *int64
	// CellSize is the number of pixels per grid unit. It must match the one
	// labels were measured with.
	CellSize    *float64
	Font        fonts.FontFamily
	EmbedFonts  *bool
	NoXMLTag    *bool
	OmitVersion *bool
}

// Canvas is the part of the plane a poster is drawn on, in grid units.
func Canvas(p *lgtarget.Poster, cellSize float64) geo.BoundingBox {
	box := p.BoundingBox()
	grid := p.GridBox()

	top := grid.YMin - axisLabelOffset - p.Style.AxisFontSize/cellSize
	if p.Title != "" {
		top = math.Min(top, grid.YMin-lgrenderers.TitleOffset-p.Style.TitleFontSize/cellSize)
	}
	// the y axis label is rotated, its height is its width on the page
	left := math.Min(box.XMin, grid.XMin-axisLabelOffset) - p.Style.AxisFontSize/cellSize
	return box.Union(geo.NewBoundingBox(left, box.XMax, top, box.YMax))
}

type surface struct {
	buf    *bytes.Buffer
	cell   float64
	pad    float64
	canvas geo.BoundingBox
}

func (s *surface) x(v float64) float64 {
	return (v-s.canvas.XMin)*s.cell + s.pad
}

func (s *surface) y(v float64) float64 {
	return (v-s.canvas.YMin)*s.cell + s.pad
}

func (s *surface) scale(v float64) float64 {
	return v * s.cell
}

func (s *surface) pt(p geo.Point) (string, string) {
	return svg.Num(s.x(p.X)), svg.Num(s.y(p.Y))
}

// paint normalizes c for SVG. Every CSS color is accepted by lggraph but
// SVG 1.1 viewers only know hex and named colors.
func paint(c string) string {
	if h, err := color.Hex(c); err == nil {
		return h
	}
	return c
}

// labelPaint keeps bright label colors readable on the white background.
func labelPaint(c string) string {
	lc, err := color.LuminanceCategory(c)
	if err != nil || lc != "bright" {
		return paint(c)
	}
	d, err := color.Darken(c)
	if err != nil {
		return paint(c)
	}
	return d
}

func (s *surface) DrawGrid(g lgrenderers.Grid) error {
	fmt.Fprintf(s.buf, `<g class="grid">`)

	cells := svg.NewPathContext(geo.NewPoint(s.pad-s.canvas.XMin*s.cell, s.pad-s.canvas.YMin*s.cell), s.cell)
	half := g.MarkerSize / 2
	for year := 0; year < g.MaxAge; year++ {
		for week := 1; week <= g.Weeks; week++ {
			cells.Rect(float64(week)-half, float64(year)-half, g.MarkerSize, g.MarkerSize)
		}
	}
	fmt.Fprintf(s.buf, `<path class="cells" d="%s" fill="none" stroke="%s" stroke-width="%s"/>`,
		cells.PathData(), GRID_COLOR, svg.Num(s.scale(g.EdgeWidth)))

	for _, tick := range g.XTicks() {
		x, y := s.pt(geo.NewPoint(float64(tick), g.Box.YMin-tickOffset))
		fmt.Fprintf(s.buf, `<text class="tick x-tick" x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-size="%s" fill="%s">%d</text>`,
			x, y, svg.Num(g.FontSize), TEXT_COLOR, tick)
	}
	for _, tick := range g.YTicks() {
		x, y := s.pt(geo.NewPoint(g.Box.XMin-tickOffset, float64(tick)))
		fmt.Fprintf(s.buf, `<text class="tick y-tick" x="%s" y="%s" text-anchor="end" dominant-baseline="middle" font-size="%s" fill="%s">%d</text>`,
			x, y, svg.Num(g.FontSize), TEXT_COLOR, tick)
	}

	if g.Axes.X != "" {
		x, y := s.pt(geo.NewPoint(g.Box.XMin, g.Box.YMin-axisLabelOffset))
		fmt.Fprintf(s.buf, `<text class="axis-label x-axis" x="%s" y="%s" text-anchor="start" dominant-baseline="middle" font-size="%s" fill="%s">%s</text>`,
			x, y, svg.Num(g.FontSize), TEXT_COLOR, svg.EscapeText(g.Axes.X))
	}
	if g.Axes.Y != "" {
		// the y axis label reads bottom to top, starting at the top row
		x := svg.Num(s.pad + g.FontSize/2)
		y := svg.Num(s.y(g.Box.YMin))
		fmt.Fprintf(s.buf, `<text class="axis-label y-axis" x="%s" y="%s" text-anchor="end" dominant-baseline="middle" font-size="%s" fill="%s" transform="rotate(-90 %s %s)">%s</text>`,
			x, y, svg.Num(g.FontSize), TEXT_COLOR, x, y, svg.EscapeText(g.Axes.Y))
	}

	fmt.Fprintf(s.buf, `</g>`)
	return nil
}

func (s *surface) DrawCircle(c geo.Circle, col string, width float64) error {
	x, y := s.pt(c.Center)
	fmt.Fprintf(s.buf, `<circle class="circle" cx="%s" cy="%s" r="%s" fill="none" stroke="%s" stroke-width="%s"/>`,
		x, y, svg.Num(s.scale(c.Radius)), paint(col), svg.Num(s.scale(width)))
	return nil
}

func (s *surface) DrawMarker(m lgtarget.Marker, size float64) error {
	fill := "none"
	if m.Fill == lgtarget.FillFull {
		fill = paint(m.Color)
	}
	switch m.Shape {
	case lgtarget.MarkerCircle:
		x, y := s.pt(m.Point)
		fmt.Fprintf(s.buf, `<circle class="marker" cx="%s" cy="%s" r="%s" fill="%s" stroke="%s"/>`,
			x, y, svg.Num(s.scale(size/2)), fill, paint(m.Color))
	case lgtarget.MarkerSquare:
		x, y := s.pt(m.Point.AddVector(geo.NewVector(-size/2, -size/2)))
		fmt.Fprintf(s.buf, `<rect class="marker" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s"/>`,
			x, y, svg.Num(s.scale(size)), svg.Num(s.scale(size)), fill, paint(m.Color))
	default:
		return fmt.Errorf("unknown marker shape %q", m.Shape)
	}
	return nil
}

func (s *surface) line(class string, seg geo.Segment, col string, width float64) {
	x1, y1 := s.pt(seg.Start)
	x2, y2 := s.pt(seg.End)
	fmt.Fprintf(s.buf, `<line class="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"/>`,
		class, x1, y1, x2, y2, paint(col), svg.Num(s.scale(width)))
}

func (s *surface) DrawLine(seg geo.Segment, col string, width float64) error {
	s.line("connector", seg, col, width)
	return nil
}

func (s *surface) DrawFilledBand(row lgtarget.BandRow, col string, alpha float64) error {
	x, y := s.pt(geo.NewPoint(row.XMin, row.Y-0.5))
	fmt.Fprintf(s.buf, `<rect class="band" x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="%s"/>`,
		x, y, svg.Num(s.scale(row.XMax-row.XMin)), svg.Num(s.scale(1)), paint(col), svg.Num(alpha))
	return nil
}

func (s *surface) DrawAnnotatedArrow(a lgrenderers.Arrow) error {
	if a.Box.Empty() {
		return fmt.Errorf("label %q has not been placed", a.Text)
	}
	fmt.Fprintf(s.buf, `<g class="annotation">`)
	s.line("arrow", a.Line, a.Color, a.Width)

	lines := svg.Lines(a.Text)
	lineHeight := a.Box.Height() / float64(len(lines))
	fmt.Fprintf(s.buf, `<text class="label" font-size="%s" font-weight="bold" fill="%s" dominant-baseline="middle">`,
		svg.Num(a.FontSize), labelPaint(a.Color))
	for i, line := range lines {
		x, y := s.pt(geo.NewPoint(a.Box.XMin, a.Box.YMin+lineHeight*(float64(i)+0.5)))
		fmt.Fprintf(s.buf, `<tspan x="%s" y="%s">%s</tspan>`, x, y, line)
	}
	fmt.Fprintf(s.buf, `</text></g>`)
	return nil
}

func (s *surface) DrawText(t lgrenderers.Text) error {
	col := t.Color
	if col == "" {
		col = TEXT_COLOR
	}
	baseline := "middle"
	if t.Kind == lgrenderers.MaxAgeText {
		baseline = "text-after-edge"
	}
	x, y := s.pt(t.Point)
	transform := ""
	if t.Rotation != 0 {
		transform = fmt.Sprintf(` transform="rotate(%s %s %s)"`, svg.Num(-t.Rotation), x, y)
	}
	fmt.Fprintf(s.buf, `<text class="%s" x="%s" y="%s" text-anchor="middle" dominant-baseline="%s" font-size="%s" fill="%s" fill-opacity="%s"%s>%s</text>`,
		t.Kind, x, y, baseline, svg.Num(t.FontSize), paint(col), svg.Num(t.Alpha), transform, svg.EscapeText(t.Text))
	return nil
}

func embedFonts(buf *bytes.Buffer, hash string, family fonts.FontFamily) error {
	fmt.Fprint(buf, `<style type="text/css"><![CDATA[`)
	for _, style := range []fonts.FontStyle{fonts.FONT_STYLE_REGULAR, fonts.FONT_STYLE_BOLD} {
		url, err := family.Font(fonts.SIZELESS_FONT_SIZE, style).DataURL()
		if err != nil {
			return err
		}
		weight := "normal"
		if style == fonts.FONT_STYLE_BOLD {
			weight = "bold"
		}
		fmt.Fprintf(buf, `@font-face{font-family:%s-font;font-weight:%s;src:url("%s");}`, hash, weight, url)
	}
	fmt.Fprintf(buf, `.%s text{font-family:%s-font,%s;}`, hash, hash, family.CSSFamily())
	fmt.Fprint(buf, `]]></style>`)
	return nil
}

// Render draws p as an SVG document.
func Render(ctx context.Context, p *lgtarget.Poster, opts *RenderOpts) (_ []byte, err error) {
	defer xdefer.Errorf(&err, "failed to render svg")

	if opts == nil {
		opts = &RenderOpts{}
	}
	pad := DEFAULT_PADDING
	if opts.Pad != nil {
		pad = int(*opts.Pad)
	}
	cellSize := textmeasure.DEFAULT_CELL_SIZE
	if opts.CellSize != nil {
		cellSize = *opts.CellSize
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("cell size must be positive, got %v", cellSize)
	}
	family := opts.Font
	if family == "" {
		family = fonts.Go
	}

	hash, err := p.HashID()
	if err != nil {
		return nil, err
	}

	canvas := Canvas(p, cellSize)
	w := int(math.Ceil(canvas.Width()*cellSize)) + pad*2
	h := int(math.Ceil(canvas.Height()*cellSize)) + pad*2

	buf := &bytes.Buffer{}
	s := &surface{
		buf:    buf,
		cell:   cellSize,
		pad:    float64(pad),
		canvas: canvas,
	}

	if opts.EmbedFonts != nil && *opts.EmbedFonts {
		if err := embedFonts(buf, hash, family); err != nil {
			return nil, err
		}
	} else {
		fmt.Fprintf(buf, `<style type="text/css"><![CDATA[.%s text{font-family:%s;}]]></style>`, hash, family.CSSFamily())
	}
	fmt.Fprintf(buf, `<rect class="background" x="0" y="0" width="%d" height="%d" fill="white"/>`, w, h)

	if err := lgrenderers.Draw(ctx, p, s); err != nil {
		return nil, err
	}

	xmlTag := ""
	if opts.NoXMLTag == nil || !*opts.NoXMLTag {
		xmlTag = `<?xml version="1.0" encoding="utf-8"?>`
	}
	versionAttr := ""
	if opts.OmitVersion == nil || !*opts.OmitVersion {
		versionAttr = fmt.Sprintf(` data-lifegraph-version="%s"`, version.Version)
	}

	doc := fmt.Sprintf(`%s<svg xmlns="http://www.w3.org/2000/svg" class="%s"%s width="%d" height="%d" viewBox="0 0 %d %d">%s</svg>`,
		xmlTag,
		hash,
		versionAttr,
		w, h, w, h,
		buf.String(),
	)
	return []byte(doc), nil
}
