package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/taskdeck/internal/notify"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("75")  // Blue
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	// Selected row in the dashboard list
	StyleSelected = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(lipgloss.Color("237")).
			Bold(true)

	// Completed tasks render dim with strikethrough, like the web UI did.
	StyleDone = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Strikethrough(true)

	// Search input border
	StyleInputBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)
)

// NotificationStyle maps a notification kind to its display style.
func NotificationStyle(kind notify.Kind) lipgloss.Style {
	switch kind {
	case notify.Success:
		return StyleSuccess
	case notify.Error:
		return StyleError
	case notify.Warning:
		return StyleWarning
	default:
		return StylePrimary
	}
}

// NotificationIcon maps a notification kind to a one-glyph marker.
func NotificationIcon(kind notify.Kind) string {
	switch kind {
	case notify.Success:
		return "✔"
	case notify.Error:
		return "✘"
	case notify.Warning:
		return "!"
	default:
		return "•"
	}
}
