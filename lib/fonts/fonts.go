// Package fonts holds the fonts that labels are measured and rendered with.
//
// The faces are the Go fonts shipped with golang.org/x/image, so measurement
// needs no files on disk.
package fonts

import (
	"encoding/base64"
	"fmt"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

type FontFamily string
type FontStyle string

type Font struct {
	Family FontFamily
	Style  FontStyle
	Size   int
}

func (f FontFamily) Font(size int, style FontStyle) Font {
	return Font{
		Family: f,
		Style:  style,
		Size:   size,
	}
}

// Sizeless is f keyed the way FontFaces is.
func (f Font) Sizeless() Font {
	f.Size = SIZELESS_FONT_SIZE
	return f
}

// CSSFamily is the font-family value renderers should emit for f.
func (f FontFamily) CSSFamily() string {
	switch f {
	case GoMono:
		return `"Go Mono", monospace`
	default:
		return `"Go", sans-serif`
	}
}

// DataURL returns the face as a base64 data URL suitable for @font-face.
func (f Font) DataURL() (string, error) {
	b, ok := FontFaces[f.Sizeless()]
	if !ok {
		return "", fmt.Errorf("no face for %s %s", f.Family, f.Style)
	}
	return "data:font/ttf;base64," + base64.StdEncoding.EncodeToString(b), nil
}

const (
	SIZELESS_FONT_SIZE = 0

	FONT_SIZE_S  = 10
	FONT_SIZE_M  = 12
	FONT_SIZE_L  = 16
	FONT_SIZE_XL = 24

	FONT_STYLE_REGULAR FontStyle = "regular"
	FONT_STYLE_BOLD    FontStyle = "bold"
	FONT_STYLE_ITALIC  FontStyle = "italic"

	Go     FontFamily = "Go"
	GoMono FontFamily = "GoMono"
)

var FontStyles = []FontStyle{
	FONT_STYLE_REGULAR,
	FONT_STYLE_BOLD,
	FONT_STYLE_ITALIC,
}

var FontFamilies = []FontFamily{
	Go,
	GoMono,
}

var FontFaces = map[Font][]byte{
	{Family: Go, Style: FONT_STYLE_REGULAR}:     goregular.TTF,
	{Family: Go, Style: FONT_STYLE_BOLD}:        gobold.TTF,
	{Family: Go, Style: FONT_STYLE_ITALIC}:      goitalic.TTF,
	{Family: GoMono, Style: FONT_STYLE_REGULAR}: gomono.TTF,
	{Family: GoMono, Style: FONT_STYLE_BOLD}:    gomonobold.TTF,
	// Go Mono ships no italic face.
	{Family: GoMono, Style: FONT_STYLE_ITALIC}: gomono.TTF,
}
