package color

import (
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

var ErrInvalidColor = errors.New("invalid color")

// Validate checks that colorString is a CSS color: a name, hex, rgb(), hsl() and so on.
func Validate(colorString string) error {
	if _, err := csscolorparser.Parse(colorString); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidColor, colorString, err)
	}
	return nil
}

// Hex normalizes a CSS color to #rrggbb.
func Hex(colorString string) (string, error) {
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidColor, colorString, err)
	}
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex(), nil
}

func Darken(colorString string) (string, error) {
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return "", err
	}
	h, s, l := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
	// decrease luminance by 10%
	return colorful.Hsl(h, s, l-.1).Clamped().Hex(), nil
}

func LuminanceCategory(colorString string) (string, error) {
	l, err := Luminance(colorString)
	if err != nil {
		return "", err
	}

	switch {
	case l >= .88:
		return "bright", nil
	case l >= .55:
		return "normal", nil
	case l >= .30:
		return "dark", nil
	default:
		return "darker", nil
	}
}

func Luminance(colorString string) (float64, error) {
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return 0, err
	}

	l := float64(
		float64(0.299)*float64(c.R) +
			float64(0.587)*float64(c.G) +
			float64(0.114)*float64(c.B),
	)
	return l, nil
}

// Palette supplies colors for annotations registered without one.
type Palette interface {
	Next() string
}

// Cycle is a Palette that hands out its colors in order and starts over when exhausted.
type Cycle struct {
	colors []string
	i      int
}

func NewCycle(colors ...string) (*Cycle, error) {
	if len(colors) == 0 {
		return nil, errors.New("palette needs at least one color")
	}
	for _, c := range colors {
		if err := Validate(c); err != nil {
			return nil, err
		}
	}
	return &Cycle{colors: colors}, nil
}

func (p *Cycle) Next() string {
	c := p.colors[p.i%len(p.colors)]
	p.i++
	return c
}

// defaultColors are saturated CSS named colors that stay readable on white paper.
var defaultColors = []string{
	"crimson",
	"darkorange",
	"forestgreen",
	"royalblue",
	"darkviolet",
	"teal",
	"saddlebrown",
	"deeppink",
	"olivedrab",
	"steelblue",
	"firebrick",
	"darkcyan",
}

func DefaultPalette() Palette {
	p, _ := NewCycle(defaultColors...)
	return p
}

// NewHuePalette returns a palette of n colors with evenly spaced hues,
// all at the given HSL saturation and lightness.
func NewHuePalette(n int, saturation, lightness float64) (*Cycle, error) {
	if n <= 0 {
		return nil, fmt.Errorf("palette size must be positive, got %d", n)
	}
	colors := make([]string, 0, n)
	step := 360. / float64(n)
	for i := 0; i < n; i++ {
		h := math.Mod(float64(i)*step, 360)
		colors = append(colors, colorful.Hsl(h, saturation, lightness).Clamped().Hex())
	}
	return NewCycle(colors...)
}
