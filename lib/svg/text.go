package svg

import (
	"bytes"
	"encoding/xml"
	"strings"
)

func EscapeText(text string) string {
	buf := new(bytes.Buffer)
	_ = xml.EscapeText(buf, []byte(text))
	return buf.String()
}

// Lines splits text into escaped lines, one per <tspan>. Carriage returns are
// dropped.
func Lines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = EscapeText(l)
	}
	return lines
}
