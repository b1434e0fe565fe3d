package ui

import (
	"github.com/charmbracelet/lipgloss"
	te "github.com/muesli/termenv"

	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

// Palette. Every color is adaptive so a theme switch only has to flip
// the background assumption.
var (
	indigo     = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	cream      = lipgloss.AdaptiveColor{Light: "#FFFDF5", Dark: "#FFFDF5"}
	mintGreen  = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen  = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}
	green      = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	semiDimFg  = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#777777"}
	dimFg      = lipgloss.AdaptiveColor{Light: "#C2B8C2", Dark: "#5C5C5C"}
	warmOrange = lipgloss.AdaptiveColor{Light: "#ED567A", Dark: "#FF8272"}

	statusBarNoteFg = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	statusBarBg     = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}
)

var (
	logoStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(indigo).
			Bold(true).
			Render

	titleStyle = lipgloss.NewStyle().
			Foreground(indigo).
			Bold(true).
			Render

	subtleStyle = lipgloss.NewStyle().
			Foreground(dimFg).
			Render

	semiSubtleStyle = lipgloss.NewStyle().
			Foreground(semiDimFg).
			Render

	selectedStyle = lipgloss.NewStyle().
			Foreground(indigo).
			Bold(true).
			Render

	dueMarkStyle = lipgloss.NewStyle().
			Foreground(green).
			Render

	flagMarkStyle = lipgloss.NewStyle().
			Foreground(warmOrange).
			Render

	errorTitleStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(warmOrange).
			Padding(0, 1).
			Render

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(indigo).
			Bold(true).
			Underline(true).
			Render

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(semiDimFg).
				Render

	statusBarNoteStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(statusBarBg).
				Render

	statusBarHelpStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(lipgloss.AdaptiveColor{Light: "#DCDCDC", Dark: "#323232"}).
				Render

	statusBarMessageStyle = lipgloss.NewStyle().
				Foreground(mintGreen).
				Background(darkGreen).
				Render

	statusBarCountStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#949494", Dark: "#5A5A5A"}).
				Background(statusBarBg).
				Render

	helpViewStyle = lipgloss.NewStyle().
			Foreground(statusBarNoteFg).
			Background(lipgloss.AdaptiveColor{Light: "#f2f2f2", Dark: "#1B1B1B"}).
			Render

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(indigo).
			Padding(1, 3)
)

// detectTheme follows the terminal background. Used before anyone is
// logged in.
func detectTheme() {
	lipgloss.SetHasDarkBackground(te.HasDarkBackground())
}

// applyTheme pins the adaptive palette to the record's theme.
func applyTheme(t vocab.Theme) {
	lipgloss.SetHasDarkBackground(t == vocab.ThemeDark)
}

func logoView() string {
	return logoStyle(" EchoLingo ")
}
