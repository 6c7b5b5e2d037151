// Package strings holds text helpers for terminal output.
package strings

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultCellWidth is the column budget of a table cell.
const DefaultCellWidth = 60

// MinCellWidth is the smallest width Truncate accepts. Smaller values are
// raised to it so at least one column of content fits before the ellipsis.
const MinCellWidth = 4

const ellipsis = "..."

// SingleLine collapses every run of whitespace, line breaks included, into a
// single space and trims both ends.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate puts s on a single line and cuts it to at most width terminal
// columns, ending cut strings with "...". Wide characters such as kanji take
// two columns, so Japanese messages line up with ASCII ones.
func Truncate(s string, width int) string {
	if width < MinCellWidth {
		width = MinCellWidth
	}
	return runewidth.Truncate(SingleLine(s), width, ellipsis)
}
