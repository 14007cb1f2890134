// Package strings holds text helpers shared by the output formatters.
package strings

import (
	"strings"
)

// ellipsis marks a shortened value.
const ellipsis = "..."

// MinWidth is the smallest width SingleLine honors: one character plus the ellipsis.
const MinWidth = len(ellipsis) + 1

// SingleLine collapses every run of whitespace (newlines included) into one space and
// shortens the result to at most width runes, ending it with "..." when cut.
// Widths below MinWidth are raised to MinWidth.
func SingleLine(s string, width int) string {
	if width < MinWidth {
		width = MinWidth
	}
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-len(ellipsis)]) + ellipsis
}
