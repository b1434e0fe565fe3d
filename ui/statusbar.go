package ui

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// statusBarView renders the one-line footer every screen shares: logo,
// note, right-aligned counter, help hint. A set message flag switches
// the bar to the status message colors.
func statusBarView(width int, note, counter string, message bool) string {
	logo := logoView()

	var count string
	if counter != "" {
		count = statusBarCountStyle(" " + counter + " ")
	}

	helpNote := statusBarHelpStyle(" ? Help ")

	noteStyle := statusBarNoteStyle
	if message {
		noteStyle = statusBarMessageStyle
	}

	note = truncate.StringWithTail(" "+note+" ", uint(max(0, //nolint:gosec
		width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(count)-
			ansi.PrintableRuneWidth(helpNote),
	)), ellipsis)
	note = noteStyle(note)

	padding := max(0,
		width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(note)-
			ansi.PrintableRuneWidth(count)-
			ansi.PrintableRuneWidth(helpNote),
	)
	emptySpace := noteStyle(strings.Repeat(" ", padding))

	return logo + note + emptySpace + count + helpNote
}
