package svg

import (
	"bytes"
	"encoding/xml"
	"math"
	"strconv"
)

const (
	popupFontSize   = 12.0
	popupLineHeight = 16.0
	popupPadding    = 8.0
	popupCharWidth  = 0.6
)

// EscapeXML escapes text for use in element content and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// popupSize estimates the box needed for lines at popupFontSize.
func popupSize(lines []string) (w, h float64) {
	longest := 0
	for _, l := range lines {
		longest = max(longest, len([]rune(l)))
	}
	w = float64(longest)*popupFontSize*popupCharWidth + 2*popupPadding
	h = float64(len(lines))*popupLineHeight + 2*popupPadding - (popupLineHeight - popupFontSize)
	return w, h
}
