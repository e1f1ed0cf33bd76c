package textmeasure_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/lifegraph/lib/fonts"
	"oss.terrastruct.com/lifegraph/lib/textmeasure"
)

var txts = []string{
	"Moved to Berlin for the first job",
	"Don't let go of what you've got hold of, until you have hold of something else.",
	"To get something clean, one has to get something dirty.",
	"The notes blatted skyward as they rose over the Canada geese, feathered",
	"There is no such thing as a problem without a gift for you in its hands.",
	"Baseball is a skilled game.  It's America's game - it, and high taxes.",
	"He is truly wise who gains wisdom from another's mishap.",
	"If you have never been hated by your child, you have never been a parent.",
	"Your only obligation in any lifetime is to be true to yourself.  Being",
	"The computing field is always in need of new cliches.",
}

func TestTextMeasure(t *testing.T) {
	ruler, err := textmeasure.NewRuler()
	require.NoError(t, err)
	font := fonts.Go.Font(fonts.FONT_SIZE_M, fonts.FONT_STYLE_REGULAR)

	// For a set of random strings, test each char increases width but not height
	for _, txt := range txts {
		txt = strings.ReplaceAll(txt, " ", "")
		for i := 1; i < len(txt)-1; i++ {
			w1, h1 := ruler.Measure(font, txt[:i])
			w2, h2 := ruler.Measure(font, txt[:i+1])
			assert.Equal(t, h1, h2)
			assert.Less(t, w1, w2, fmt.Sprintf(`"%s" vs "%s"`, txt[:i], txt[:i+1]))
		}
	}

	// For a set of random strings, test that adding newlines increases height each time
	for _, txt := range txts {
		whitespaces := strings.Count(txt, " ")
		for i := 0; i < whitespaces-1; i++ {
			txt1 := strings.Replace(txt, " ", "\n", i)
			txt2 := strings.Replace(txt, " ", "\n", i+1)

			w1, h1 := ruler.Measure(font, txt1)
			w2, h2 := ruler.Measure(font, txt2)

			assert.Less(t, h1, h2)
			assert.Less(t, w2, w1)
		}
	}
}

func TestFontMeasure(t *testing.T) {
	ruler, err := textmeasure.NewRuler()
	require.NoError(t, err)

	sizes := []int{fonts.FONT_SIZE_S, fonts.FONT_SIZE_M, fonts.FONT_SIZE_L, fonts.FONT_SIZE_XL}
	// For a set of random strings, test that font sizes are strictly increasing
	for _, txt := range txts {
		for i := 0; i < len(sizes)-1; i++ {
			w1, h1 := ruler.Measure(fonts.Go.Font(sizes[i], fonts.FONT_STYLE_REGULAR), txt)
			w2, h2 := ruler.Measure(fonts.Go.Font(sizes[i+1], fonts.FONT_STYLE_REGULAR), txt)
			assert.Less(t, h1, h2)
			assert.Less(t, w1, w2)
		}
	}
}

func TestBoldIsWider(t *testing.T) {
	ruler, err := textmeasure.NewRuler()
	require.NoError(t, err)

	for _, txt := range txts {
		w1, _ := ruler.MeasurePrecise(fonts.Go.Font(fonts.FONT_SIZE_M, fonts.FONT_STYLE_REGULAR), txt)
		w2, _ := ruler.MeasurePrecise(fonts.Go.Font(fonts.FONT_SIZE_M, fonts.FONT_STYLE_BOLD), txt)
		assert.Less(t, w1, w2, txt)
	}
}

func TestOracle(t *testing.T) {
	ruler, err := textmeasure.NewRuler()
	require.NoError(t, err)
	font := fonts.Go.Font(fonts.FONT_SIZE_M, fonts.FONT_STYLE_REGULAR)

	o := textmeasure.NewOracle(ruler, 10)
	w, h := o.Measure("Graduated", fonts.FONT_SIZE_M)
	pw, ph := ruler.MeasurePrecise(font, "Graduated")
	assert.InDelta(t, pw/10, w, 1e-9)
	assert.InDelta(t, ph/10, h, 1e-9)

	w, h = o.Measure("", fonts.FONT_SIZE_M)
	assert.Equal(t, 0., w)
	assert.Equal(t, 0., h)

	assert.Equal(t, textmeasure.DEFAULT_CELL_SIZE, textmeasure.NewOracle(ruler, 0).CellSize)
}

func TestOracleFractionalSizes(t *testing.T) {
	ruler, err := textmeasure.NewRuler()
	require.NoError(t, err)
	o := textmeasure.NewOracle(ruler, 10)

	w12, h12 := o.Measure("Graduated", 12)
	w, h := o.Measure("Graduated", 12.4)
	assert.InDelta(t, w12*12.4/12, w, 1e-9)
	assert.InDelta(t, h12*12.4/12, h, 1e-9)

	// sizes below half a pixel must not fall back to the face's default size
	w1, h1 := o.Measure("Graduated", 1)
	w, h = o.Measure("Graduated", 0.4)
	assert.InDelta(t, w1*0.4, w, 1e-9)
	assert.InDelta(t, h1*0.4, h, 1e-9)
	assert.Less(t, w, w12/10)

	w, h = o.Measure("Graduated", 0)
	assert.Equal(t, 0., w)
	assert.Equal(t, 0., h)
}

func TestOracleWideGraphemes(t *testing.T) {
	ruler, err := textmeasure.NewRuler()
	require.NoError(t, err)

	o := textmeasure.NewOracle(ruler, 10)
	w1, _ := o.Measure("日本", fonts.FONT_SIZE_M)
	w2, _ := o.Measure("日本語", fonts.FONT_SIZE_M)
	assert.Less(t, 0., w1)
	assert.Less(t, w1, w2)
}

func TestFixedOracle(t *testing.T) {
	o := textmeasure.FixedOracle{CharWidth: 0.05, LineHeight: 0.1}

	w, h := o.Measure("abcd", 10)
	assert.InDelta(t, 2, w, 1e-9)
	assert.InDelta(t, 1, h, 1e-9)

	w, h = o.Measure("ab\nabcdef", 10)
	assert.InDelta(t, 3, w, 1e-9)
	assert.InDelta(t, 2, h, 1e-9)

	// wide graphemes take two cells
	w, _ = o.Measure("日本", 10)
	assert.InDelta(t, 2, w, 1e-9)
}
