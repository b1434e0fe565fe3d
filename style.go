package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// Help text width before wrapping.
const maxWidth = 78

var keyword = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}).
	Render

// paragraph wraps and indents a block of help text.
func paragraph(s string) string {
	return indent.String(wordwrap.String(s, maxWidth-2), 2)
}
