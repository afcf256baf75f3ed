package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/board"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// ErrorStyle renders failures reported in the status bar.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// DimmedStyle fades completed items.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// Tab styles for the role bucket bar.
var (
	TabStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorSubtle).
			Padding(0, 1)
)

// DeadlineStyle returns a color-coded style for a deadline status.
func DeadlineStyle(status board.Status) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch status {
	case board.StatusOverdue:
		return base.Foreground(ColorRed)
	case board.StatusSoon:
		return base.Foreground(ColorYellow)
	case board.StatusOK:
		return base.Foreground(ColorGreen)
	case board.StatusDone:
		return base.Foreground(ColorGray)
	default:
		return base.Foreground(ColorSubtle)
	}
}

// DeadlineLabel is the short text shown next to a deadline status.
func DeadlineLabel(status board.Status) string {
	switch status {
	case board.StatusOverdue:
		return "OVERDUE"
	case board.StatusSoon:
		return "SOON"
	case board.StatusOK:
		return "ON TRACK"
	case board.StatusDone:
		return "DONE"
	default:
		return "NO DEADLINE"
	}
}

// RoleStyle returns a color-coded style for a role label.
func RoleStyle(label string) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1)

	switch label {
	case board.LabelCreator:
		return base.Foreground(ColorMagenta)
	case board.LabelResponsible:
		return base.Foreground(ColorBlue)
	case board.LabelNone:
		return base.Foreground(ColorSubtle)
	default:
		return base.Foreground(ColorGray)
	}
}
