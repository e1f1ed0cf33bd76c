package textmeasure

import (
	"math"
	"strings"

	"github.com/rivo/uniseg"

	"oss.terrastruct.com/lifegraph/lib/fonts"
)

// DEFAULT_CELL_SIZE is the number of pixels in one grid unit, i.e. the side of
// one week cell on the rendered poster.
const DEFAULT_CELL_SIZE = 10.

// Oracle measures label text with a Ruler and reports the result in grid units.
type Oracle struct {
	Ruler *Ruler
	// CellSize is the number of pixels per grid unit.
	CellSize float64
	Family   fonts.FontFamily
	Style    fonts.FontStyle
}

func NewOracle(ruler *Ruler, cellSize float64) *Oracle {
	if cellSize <= 0 {
		cellSize = DEFAULT_CELL_SIZE
	}
	return &Oracle{
		Ruler:    ruler,
		CellSize: cellSize,
		Family:   fonts.Go,
		Style:    fonts.FONT_STYLE_REGULAR,
	}
}

// Measure returns the width and height of text set at fontSize pixels, in grid units.
//
// Faces are cached per whole pixel size. Fractional sizes are measured at the
// nearest whole size of at least one pixel and scaled linearly to fontSize.
func (o *Oracle) Measure(text string, fontSize float64) (width, height float64) {
	if text == "" || !(fontSize > 0) {
		return 0, 0
	}
	size := math.Max(1, math.Round(fontSize))
	font := o.Family.Font(int(size), o.Style)
	w, h := o.Ruler.MeasurePrecise(font, text)
	w = o.Ruler.scaleUnicode(w, font, text)
	scale := fontSize / size / o.CellSize
	return w * scale, h * scale
}

// FixedOracle measures every grapheme as CharWidth and every line as LineHeight,
// both per pixel of font size and in grid units. It needs no fonts and its
// results are easy to predict, which makes it useful in tests and for plain
// text previews.
type FixedOracle struct {
	CharWidth  float64
	LineHeight float64
}

func (o FixedOracle) Measure(text string, fontSize float64) (width, height float64) {
	if text == "" {
		return 0, 0
	}
	lines := strings.Split(text, "\n")
	maxWidth := 0
	for _, line := range lines {
		if w := uniseg.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return float64(maxWidth) * o.CharWidth * fontSize, float64(len(lines)) * o.LineHeight * fontSize
}
