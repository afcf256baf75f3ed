// Package dashboard renders a user's task counts.
package dashboard

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(theme.ColorGray).Width(16)
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Width(6).Align(lipgloss.Right)
)

// Panel renders the stats for u as a bordered panel.
func Panel(u model.User, s board.Stats) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorBlue).
		MarginBottom(1).
		Render(fmt.Sprintf("Dashboard for %s (%s)", u.DisplayName(), u.Username))

	overdue := valueStyle
	if s.Overdue > 0 {
		overdue = overdue.Foreground(theme.ColorRed)
	}

	rows := []string{
		title,
		row("Total", valueStyle, s.Total),
		row(board.TabCreator.Label(), valueStyle, s.Creator),
		row(board.TabResponsible.Label(), valueStyle, s.Responsible),
		row(board.TabParticipant.Label(), valueStyle, s.Participant),
		row(board.TabCompleted.Label(), valueStyle.Foreground(theme.ColorGreen), s.Completed),
		row("Overdue", overdue, s.Overdue),
	}

	return theme.DetailPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Summary is the one-line form shown in the browse header.
func Summary(s board.Stats) string {
	return fmt.Sprintf("%d open · %d overdue · %d done", s.Total-s.Completed, s.Overdue, s.Completed)
}

func row(label string, style lipgloss.Style, n int) string {
	return labelStyle.Render(label) + style.Render(fmt.Sprint(n))
}
