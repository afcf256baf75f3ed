package tasklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/tasks"
	"github.com/nhle/taskboard/internal/theme"
	"github.com/nhle/taskboard/internal/ui"
)

// TaskItem wraps a tasks.Row so it can be used in a bubbles/list.
type TaskItem struct {
	Row tasks.Row
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Row.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Row.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	parts := []string{i.Row.RoleLabel, theme.DeadlineLabel(i.Row.Status)}
	if i.Row.Responsible != nil {
		parts = append(parts, i.Row.Responsible.DisplayName())
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct {
	// Display renders deadlines in the configured zone and layout.
	Display ui.Display
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single list item line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	isSelected := index == m.Index()

	fmt.Fprint(w, d.renderRow(ti.Row, isSelected))
}

func (d ItemDelegate) renderRow(row tasks.Row, isSelected bool) string {
	prefix := "○"
	if row.Task.Completed {
		prefix = "✓"
	}

	status := theme.DeadlineStyle(row.Status).Render(fmt.Sprintf("%-11s", theme.DeadlineLabel(row.Status)))
	role := theme.RoleStyle(row.RoleLabel).Render(fmt.Sprintf("%-11s", row.RoleLabel))

	title := row.Task.Title

	deadline := ""
	if row.Task.Deadline != nil {
		deadline = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render("  " + d.Display.DateTime(*row.Task.Deadline))
	}

	responsible := ""
	if row.Responsible != nil {
		responsible = lipgloss.NewStyle().
			Foreground(theme.ColorBlue).
			Render("  @" + row.Responsible.Username)
	}

	line := fmt.Sprintf("%s %s %s %s%s%s", prefix, status, role, title, deadline, responsible)

	if row.Task.Completed {
		line = theme.DimmedStyle.Render(line)
	}
	if isSelected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// items converts board rows into list items.
func items(rows []tasks.Row) []list.Item {
	out := make([]list.Item, len(rows))
	for i, r := range rows {
		out[i] = TaskItem{Row: r}
	}
	return out
}

// emptyMessage is shown when the active tab has no rows.
func emptyMessage(tab board.Tab, query string) string {
	if query != "" {
		return fmt.Sprintf("No tasks in %q match %q.\nPress / to change the search.", tab.Label(), query)
	}
	return fmt.Sprintf("No tasks in %q.\nPress n to create one.", tab.Label())
}
