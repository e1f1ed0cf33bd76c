// Ported from https://github.com/faiface/pixel/tree/master/text
// Trimmed down to essentials of measuring text

package textmeasure

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/golang/freetype/truetype"
	"github.com/rivo/uniseg"

	"oss.terrastruct.com/lifegraph/lib/fonts"
	"oss.terrastruct.com/lifegraph/lib/geo"
)

const TAB_SIZE = 4

// Runes encompasses ASCII, Latin-1, and geometric shapes like black square
var Runes []rune

func init() {
	// ASCII range (U+0000 to U+007F)
	for r := rune(0x0000); r <= rune(0x007F); r++ {
		Runes = append(Runes, r)
	}

	// Latin-1 Supplement (U+0080 to U+00FF)
	for r := rune(0x0080); r <= rune(0x00FF); r++ {
		Runes = append(Runes, r)
	}

	// Geometric Shapes (U+25A0 to U+25FF)
	for r := rune(0x25A0); r <= rune(0x25FF); r++ {
		Runes = append(Runes, r)
	}
}

// Ruler measures text laid out with one of the faces in lib/fonts.
//
// Measuring writes the text into an internal buffer starting at Orig and tracks
// the union of the glyph bounds. Dot is the position where the next character
// will be written and is reset to Orig before every measurement.
//
// Atlases are built lazily per font size and cached, so a Ruler is not safe for
// concurrent use.
type Ruler struct {
	Orig geo.Point
	Dot  geo.Point

	// LineHeightFactor scales the vertical distance between two lines of text.
	LineHeightFactor float64
	lineHeights      map[fonts.Font]float64

	// Tab characters align to multiples of the tab width.
	tabWidths map[fonts.Font]float64

	atlases map[fonts.Font]*atlas

	ttfs map[fonts.Font]*truetype.Font

	buf    []byte
	prevR  rune
	bounds *rect
}

func NewRuler() (*Ruler, error) {
	r := &Ruler{
		LineHeightFactor: 1.,
		lineHeights:      make(map[fonts.Font]float64),
		tabWidths:        make(map[fonts.Font]float64),
		atlases:          make(map[fonts.Font]*atlas),
		ttfs:             make(map[fonts.Font]*truetype.Font),
	}

	for _, fontFamily := range fonts.FontFamilies {
		for _, fontStyle := range fonts.FontStyles {
			font := fontFamily.Font(fonts.SIZELESS_FONT_SIZE, fontStyle)
			face, has := fonts.FontFaces[font]
			if !has {
				continue
			}
			ttf, err := truetype.Parse(face)
			if err != nil {
				return nil, err
			}
			r.ttfs[font] = ttf
		}
	}

	r.clear()

	return r, nil
}

func (r *Ruler) addFontSize(font fonts.Font) {
	face := truetype.NewFace(r.ttfs[font.Sizeless()], &truetype.Options{
		Size: float64(font.Size),
	})
	atlas := NewAtlas(face, Runes)
	r.atlases[font] = atlas
	r.lineHeights[font] = atlas.lineHeight
	r.tabWidths[font] = atlas.glyph(' ').advance * TAB_SIZE
}

func (t *Ruler) scaleUnicode(w float64, font fonts.Font, s string) float64 {
	// Wide graphemes such as CJK and emoji are missing from the Go fonts and are
	// measured as replacement characters. Replace their measured width with the
	// grapheme's cell width in the monospace face. It overshoots, but not by much.
	if uniseg.GraphemeClusterCount(s) == len(s) {
		return w
	}
	mono := fonts.GoMono.Font(font.Size, font.Style)
	for _, line := range strings.Split(s, "\n") {
		lineW, _ := t.MeasurePrecise(font, line)
		gr := uniseg.NewGraphemes(line)
		for gr.Next() {
			if gr.Width() == 1 {
				continue
			}
			prevRune := rune(-1)
			dot := t.Orig
			b := newRect()
			for _, r := range gr.Runes() {
				var control bool
				dot, control = t.controlRune(r, dot, font)
				if control {
					continue
				}

				var bounds *rect
				bounds, dot = t.atlases[font].DrawRune(prevRune, r, dot)
				b = b.union(bounds)

				prevRune = r
			}
			lineW -= b.w()
			lineW += t.spaceWidth(mono) * float64(gr.Width())
		}
		w = math.Max(w, lineW)
	}
	return w
}

func (t *Ruler) Measure(font fonts.Font, s string) (width, height int) {
	w, h := t.MeasurePrecise(font, s)
	w = t.scaleUnicode(w, font, s)
	return int(math.Ceil(w)), int(math.Ceil(h))
}

func (t *Ruler) MeasurePrecise(font fonts.Font, s string) (width, height float64) {
	if _, ok := t.atlases[font]; !ok {
		t.addFontSize(font)
	}
	t.clear()
	t.buf = append(t.buf, s...)
	t.drawBuf(font)
	b := t.bounds
	return b.w(), b.h()
}

// clear removes all written text from the Ruler. The Dot field is reset to Orig.
func (txt *Ruler) clear() {
	txt.prevR = -1
	txt.bounds = newRect()
	txt.buf = txt.buf[:0]
	txt.Dot = txt.Orig
}

// controlRune checks if r is a control rune (newline, tab, ...). If it is, a new dot position and
// true is returned. If r is not a control rune, the original dot and false is returned.
func (txt *Ruler) controlRune(r rune, dot geo.Point, font fonts.Font) (newDot geo.Point, control bool) {
	switch r {
	case '\n':
		dot.X = txt.Orig.X
		dot.Y -= txt.LineHeightFactor * txt.lineHeights[font]
	case '\r':
		dot.X = txt.Orig.X
	case '\t':
		rem := math.Mod(dot.X-txt.Orig.X, txt.tabWidths[font])
		rem = math.Mod(rem, rem+txt.tabWidths[font])
		if rem == 0 {
			rem = txt.tabWidths[font]
		}
		dot.X += rem
	default:
		return dot, false
	}
	return dot, true
}

func (txt *Ruler) drawBuf(font fonts.Font) {
	for utf8.FullRune(txt.buf) {
		r, l := utf8.DecodeRune(txt.buf)
		txt.buf = txt.buf[l:]

		var control bool
		txt.Dot, control = txt.controlRune(r, txt.Dot, font)
		if control {
			continue
		}

		var bounds *rect
		bounds, txt.Dot = txt.atlases[font].DrawRune(txt.prevR, r, txt.Dot)

		txt.prevR = r

		if txt.bounds.w()*txt.bounds.h() == 0 {
			txt.bounds = bounds
		} else {
			txt.bounds = txt.bounds.union(bounds)
		}
	}
}

func (ruler *Ruler) spaceWidth(font fonts.Font) float64 {
	if _, has := ruler.atlases[font]; !has {
		ruler.addFontSize(font)
	}
	return ruler.atlases[font].glyph(' ').advance
}
