// Package output provides styled terminal rendering helpers for sweep.
package output

import "github.com/charmbracelet/lipgloss"

// Palette used by the tables, the progress line and doctor.
var (
	ColorPrimary = lipgloss.Color("#26a69a") // teal, matches the selector header
	ColorSize    = lipgloss.Color("#ffb74d")
	ColorClean   = lipgloss.Color("#81c784")
	ColorDirty   = lipgloss.Color("#e57373")
	ColorWarning = lipgloss.Color("#ffd54f")
	ColorMuted   = lipgloss.Color("#7f8c8d")
)

// Column widths for label/value summary lines.
const (
	labelWidth = 18
	valueWidth = 14
)

// Shared styles. They are rebuilt by SetNoColor.
var (
	StyleHeader  lipgloss.Style // section titles and table headers
	StyleSize    lipgloss.Style // byte counts
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleBold    lipgloss.Style
	StyleLabel   lipgloss.Style
	StyleValue   lipgloss.Style

	// StyleClean and StyleDirty render the git status column.
	StyleClean lipgloss.Style
	StyleDirty lipgloss.Style
)

var noColor bool

func init() { buildStyles(true) }

// buildStyles assigns every shared style, with or without colour.
func buildStyles(color bool) {
	fg := func(c lipgloss.Color) lipgloss.Style {
		if !color {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(c)
	}
	bold := lipgloss.NewStyle().Bold(color)

	StyleHeader = fg(ColorPrimary).Bold(color)
	StyleSize = fg(ColorSize)
	StyleSuccess = fg(ColorClean)
	StyleError = fg(ColorDirty)
	StyleWarning = fg(ColorWarning)
	StyleMuted = fg(ColorMuted)
	StyleBold = bold
	StyleLabel = lipgloss.NewStyle().Width(labelWidth)
	StyleValue = bold.Width(valueWidth)
	StyleClean = fg(ColorClean)
	StyleDirty = fg(ColorDirty).Bold(color)
}

// SetNoColor switches every shared style between coloured and plain.
func SetNoColor(disabled bool) {
	noColor = disabled
	buildStyles(!disabled)
}

// IsNoColor reports whether colour output is disabled.
func IsNoColor() bool {
	return noColor
}
