package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	colorGreen  = lipgloss.Color("40")  // Confirmations, success status
	colorYellow = lipgloss.Color("220") // Pending prompts
	colorRed    = lipgloss.Color("196") // Errors
	colorCyan   = lipgloss.Color("39")  // Accents, counts
	colorGray   = lipgloss.Color("244") // Labels
	colorWhite  = lipgloss.Color("255") // Values
	colorDim    = lipgloss.Color("240") // Secondary text
	colorAccent = lipgloss.Color("57")  // Table selection background
)

// Text styles
var (
	// Title style for the header bar
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	// Hint style for key hints next to the title
	hintStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	// Label style for form field names
	labelStyle = lipgloss.NewStyle().
			Width(10).
			Foreground(colorGray)

	// Search prompt style
	searchStyle = lipgloss.NewStyle().
			Foreground(colorCyan)

	// Status bar styles
	statusOKStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	// Confirm prompt style
	confirmStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	// Inline form error style
	formErrStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	// Focused form field marker
	focusedStyle = lipgloss.NewStyle().
			Foreground(colorCyan)
)

// tableStyles returns the table chrome matching the rest of the palette.
func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorDim).
		BorderBottom(true).
		Bold(false).
		Foreground(colorGray)
	s.Selected = s.Selected.
		Foreground(colorWhite).
		Background(colorAccent).
		Bold(false)
	return s
}
