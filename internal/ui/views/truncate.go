package views

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Ellipsis marks text that was cut
const Ellipsis = "…"

// CharCount returns the number of user-perceived characters in s
func CharCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// Truncate shortens s to at most width characters. Text that does not fit
// is cut to width-1 characters followed by an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if CharCount(s) <= width {
		return s
	}
	return firstChars(s, width-1) + Ellipsis
}

// TruncateLeft keeps the end of s. Text that does not fit is shown as an
// ellipsis followed by its last width-1 characters.
func TruncateLeft(s string, width int) string {
	if width <= 0 {
		return ""
	}
	count := CharCount(s)
	if count <= width {
		return s
	}
	return Ellipsis + lastChars(s, count, width-1)
}

func firstChars(s string, n int) string {
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < n && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	return b.String()
}

func lastChars(s string, count, n int) string {
	skip := count - n
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; g.Next(); i++ {
		if i >= skip {
			b.WriteString(g.Str())
		}
	}
	return b.String()
}
