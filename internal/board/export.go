package board

import (
	"time"
)

// Export column headings, in order.
const (
	ColumnTitle       = "Title"
	ColumnDescription = "Description"
	ColumnDeadline    = "Deadline"
	ColumnResponsible = "Responsible"
	ColumnRole        = "Role"
	ColumnStatus      = "Status"
)

// ExportColumns lists the export headings in column order.
var ExportColumns = []string{
	ColumnTitle, ColumnDescription, ColumnDeadline,
	ColumnResponsible, ColumnRole, ColumnStatus,
}

// ExportDeadlineLayout formats deadlines in export rows.
const ExportDeadlineLayout = "2006-01-02 15:04"

// Status labels in export rows.
const (
	StatusLabelCompleted  = "Completed"
	StatusLabelInProgress = "In progress"
)

// ExportRow is one spreadsheet row keyed by column heading.
type ExportRow = map[string]string

// ExportRows produces one row per task across all four buckets,
// deduplicated by task id. Deadlines are rendered in loc.
func ExportRows(userID string, b Buckets, loc *time.Location) []ExportRow {
	if loc == nil {
		loc = time.UTC
	}
	all := b.All()
	rows := make([]ExportRow, 0, len(all))
	for _, e := range all {
		t := e.Task

		deadline := ""
		if t.Deadline != nil {
			deadline = t.Deadline.In(loc).Format(ExportDeadlineLayout)
		}
		responsible := ""
		if e.Responsible != nil {
			responsible = e.Responsible.DisplayName()
		}
		status := StatusLabelInProgress
		if t.Completed {
			status = StatusLabelCompleted
		}

		rows = append(rows, ExportRow{
			ColumnTitle:       t.Title,
			ColumnDescription: t.Description,
			ColumnDeadline:    deadline,
			ColumnResponsible: responsible,
			ColumnRole:        RoleLabel(userID, t, e.Participant(userID)),
			ColumnStatus:      status,
		})
	}
	return rows
}
