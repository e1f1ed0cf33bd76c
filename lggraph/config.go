package lggraph

import (
	"errors"
	"fmt"
	"math"

	"oss.terrastruct.com/lifegraph/lggrid"
	"oss.terrastruct.com/lifegraph/lgtarget"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config sizes the grid and tunes label placement. Lengths are in grid units,
// one unit being one week cell.
type Config struct {
	WeeksPerYear int `json:"weeksPerYear"`
	MaxAge       int `json:"maxAge"`

	// LeftOffset is the gap between the grid and the right edge of left labels.
	LeftOffset float64 `json:"leftOffset"`
	// RightOffset is the gap between the grid and the left edge of right labels.
	RightOffset float64 `json:"rightOffset"`
	// LabelSpaceEpsilon is the minimum vertical gap between two labels.
	LabelSpaceEpsilon float64 `json:"labelSpaceEpsilon"`
	// EdgeMargin is how far outside the grid a hint may sit before it is
	// pulled back to the grid's edge.
	EdgeMargin float64 `json:"edgeMargin"`
	SpanRadius float64 `json:"spanRadius"`
	// FontSize is the label font size in pixels.
	FontSize float64 `json:"fontSize"`
}

func DefaultConfig() *Config {
	return &Config{
		WeeksPerYear:      lggrid.DEFAULT_WEEKS_PER_YEAR,
		MaxAge:            lggrid.DEFAULT_MAX_AGE,
		LeftOffset:        3,
		RightOffset:       3,
		LabelSpaceEpsilon: 0.2,
		EdgeMargin:        10,
		SpanRadius:        lgtarget.DEFAULT_SPAN_RADIUS,
		FontSize:          lgtarget.DEFAULT_FONT_SIZE,
	}
}

func (c *Config) Validate() error {
	if c.WeeksPerYear <= 0 {
		return fmt.Errorf("%w: weeksPerYear must be positive, got %d", ErrInvalidConfig, c.WeeksPerYear)
	}
	if c.MaxAge <= 0 {
		return fmt.Errorf("%w: maxAge must be positive, got %d", ErrInvalidConfig, c.MaxAge)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"leftOffset", c.LeftOffset},
		{"rightOffset", c.RightOffset},
		{"labelSpaceEpsilon", c.LabelSpaceEpsilon},
		{"edgeMargin", c.EdgeMargin},
		{"spanRadius", c.SpanRadius},
	} {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidConfig, f.name, f.v)
		}
	}
	if !(c.FontSize > 0) || math.IsInf(c.FontSize, 0) {
		return fmt.Errorf("%w: fontSize must be positive, got %v", ErrInvalidConfig, c.FontSize)
	}
	return nil
}

// XMin is the left data limit. It is negative so that the first column of cells is not cut off.
func (c *Config) XMin() float64 {
	return -0.5
}

func (c *Config) XMax() float64 {
	return float64(c.WeeksPerYear)
}

func (c *Config) YMin() float64 {
	return -0.5
}

func (c *Config) YMax() float64 {
	return float64(c.MaxAge)
}
