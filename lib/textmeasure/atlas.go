package textmeasure

import (
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"oss.terrastruct.com/lifegraph/lib/geo"
)

// glyph holds the metrics of one rune. frame is relative to the dot with y
// pointing up.
type glyph struct {
	frame   rect
	advance float64
}

// atlas caches glyph metrics of a fixed set of runes in one face. Nothing is
// rasterized; only the extents are needed to measure.
type atlas struct {
	face       font.Face
	glyphs     map[rune]glyph
	ascent     float64
	descent    float64
	lineHeight float64
}

// NewAtlas reads the metrics of the union of runeSets plus
// unicode.ReplacementChar from face. Runes missing from face are left out.
//
// face must stay open for as long as the atlas is used; kerning is looked up
// lazily.
func NewAtlas(face font.Face, runeSets ...[]rune) *atlas {
	m := face.Metrics()
	a := &atlas{
		face:       face,
		glyphs:     make(map[rune]glyph),
		ascent:     i2f(m.Ascent),
		descent:    i2f(m.Descent),
		lineHeight: i2f(m.Height),
	}
	a.add(unicode.ReplacementChar)
	for _, set := range runeSets {
		for _, r := range set {
			a.add(r)
		}
	}
	return a
}

func (a *atlas) add(r rune) {
	if a.contains(r) {
		return
	}
	b, advance, ok := a.face.GlyphBounds(r)
	if !ok {
		return
	}
	// Whole pixels, flipped so y grows upward.
	a.glyphs[r] = glyph{
		frame: rect{
			tl: geo.NewPoint(float64(b.Min.X.Floor()), -float64(b.Max.Y.Ceil())),
			br: geo.NewPoint(float64(b.Max.X.Ceil()), -float64(b.Min.Y.Floor())),
		},
		advance: i2f(advance),
	}
}

func (a *atlas) contains(r rune) bool {
	_, ok := a.glyphs[r]
	return ok
}

func (a *atlas) glyph(r rune) glyph {
	return a.glyphs[r]
}

// kern is positive when r0 and r1 should be further apart.
func (a *atlas) kern(r0, r1 rune) float64 {
	return i2f(a.face.Kern(r0, r1))
}

// DrawRune advances dot past r and returns the area r occupies. Visible glyphs
// span the full ascent and descent of the line so that measured heights do
// not depend on which letters a label has. Blank glyphs return an empty rect.
func (a *atlas) DrawRune(prevR, r rune, dot geo.Point) (bounds *rect, newDot geo.Point) {
	if !a.contains(unicode.ReplacementChar) {
		return newRect(), dot
	}
	if !a.contains(r) {
		r = unicode.ReplacementChar
	}
	if prevR >= 0 {
		if !a.contains(prevR) {
			prevR = unicode.ReplacementChar
		}
		dot.X += a.kern(prevR, r)
	}

	g := a.glyph(r)
	bounds = &rect{
		tl: geo.NewPoint(dot.X+g.frame.tl.X, dot.Y+g.frame.tl.Y),
		br: geo.NewPoint(dot.X+g.frame.br.X, dot.Y+g.frame.br.Y),
	}
	if bounds.w()*bounds.h() != 0 {
		bounds.tl.Y = dot.Y - a.descent
		bounds.br.Y = dot.Y + a.ascent
	}

	dot.X += g.advance
	return bounds, dot
}

func i2f(i fixed.Int26_6) float64 {
	return float64(i) / (1 << 6)
}
