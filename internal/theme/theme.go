// Package theme provides the Lip Gloss color palette and reusable styles
// for the Taskboard TUI. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Task status colors, matching the web client's palette.
var (
	ColorDone       = lipgloss.Color("#10B981") // green-500
	ColorOngoing    = lipgloss.Color("#3B82F6") // blue-500
	ColorOverdue    = lipgloss.Color("#EF4444") // red-500
	ColorNotStarted = lipgloss.Color("#6B7280") // gray-500
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorAccent  = lipgloss.Color("#6366f1") // indigo-500
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
	ColorUnread  = lipgloss.Color("#818cf8") // indigo-400
)

// StatusColor returns the color for a task status string.
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "Done":
		return ColorDone
	case "Ongoing":
		return ColorOngoing
	case "Overdue":
		return ColorOverdue
	default:
		return ColorNotStarted
	}
}

// StatusGlyph returns a glyph representing a task status.
func StatusGlyph(status string) string {
	switch status {
	case "Done":
		return "✓"
	case "Ongoing":
		return "●"
	case "Overdue":
		return "!"
	default:
		return "○"
	}
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleAccent = lipgloss.NewStyle().
			Foreground(ColorAccent)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorDanger)
)
