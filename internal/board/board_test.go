package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/model"
)

const me = "u-me"

var now = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func entry(id, creator, responsible string, role model.Role, completed bool) Entry {
	t := model.Task{ID: id, Title: "task " + id, CreatorID: creator, Completed: completed}
	if responsible != "" {
		t.ResponsibleID = ptr(responsible)
	}
	return Entry{Task: t, ViewerRole: role}
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Task.ID
	}
	return out
}

func fixture() []Entry {
	return []Entry{
		entry("created", me, "u-bob", "", false),
		entry("created-and-responsible", me, me, model.RoleExecutor, false),
		entry("responsible", "u-bob", me, "", false),
		entry("responsible-and-participant", "u-bob", me, model.RoleObserver, false),
		entry("participant", "u-bob", "u-carol", model.RoleExecutor, false),
		entry("done-created", me, "u-bob", "", true),
		entry("done-participant", "u-bob", "u-bob", model.RoleObserver, true),
		entry("unrelated", "u-bob", "u-carol", "", false),
	}
}

func TestPartitionPrecedence(t *testing.T) {
	b := Partition(me, fixture(), Filter{})

	assert.Equal(t, []string{"created", "created-and-responsible"}, ids(b.Creator))
	assert.Equal(t, []string{"responsible", "responsible-and-participant"}, ids(b.Responsible))
	assert.Equal(t, []string{"participant"}, ids(b.Participant))
	assert.Equal(t, []string{"done-created", "done-participant"}, ids(b.Completed))
}

func TestPartitionUnionIsVisibleSet(t *testing.T) {
	b := Partition(me, fixture(), Filter{})

	all := ids(b.All())
	assert.ElementsMatch(t, []string{
		"created", "created-and-responsible", "responsible",
		"responsible-and-participant", "participant",
		"done-created", "done-participant",
	}, all)

	seen := map[string]int{}
	for _, bucket := range [][]Entry{b.Creator, b.Responsible, b.Participant, b.Completed} {
		for _, e := range bucket {
			seen[e.Task.ID]++
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "task %s appears in %d buckets", id, n)
	}
}

func TestPartitionCollapsesDuplicates(t *testing.T) {
	e := entry("dup", me, me, model.RoleObserver, true)
	b := Partition(me, []Entry{e, e}, Filter{})

	assert.Len(t, b.Completed, 1)
	assert.Len(t, b.All(), 1)
}

func TestFilterText(t *testing.T) {
	withResp := entry("a", me, "u-bob", "", false)
	withResp.Task.Title = "Quarterly Report"
	withResp.Responsible = &model.User{ID: "u-bob", FirstName: "Борис", LastName: "Petrov"}

	described := entry("b", me, "", "", false)
	described.Task.Description = "Call the SUPPLIER"

	tests := []struct {
		query string
		want  []string
	}{
		{"report", []string{"a"}},
		{"supplier", []string{"b"}},
		{"борис", []string{"a"}},
		{"PETROV", []string{"a"}},
		{"nothing", nil},
		{"", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Filter{Query: tt.query}.Apply([]Entry{withResp, described})
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterDeadlineBoundsInclusive(t *testing.T) {
	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)

	at := func(id string, d *time.Time) Entry {
		e := entry(id, me, "", "", false)
		e.Task.Deadline = d
		return e
	}
	entries := []Entry{
		at("on-from", ptr(from)),
		at("on-to", ptr(to)),
		at("before", ptr(from.Add(-time.Second))),
		at("after", ptr(to.Add(time.Second))),
		at("none", nil),
	}

	got := Filter{From: &from, To: &to}.Apply(entries)
	assert.Equal(t, []string{"on-from", "on-to"}, ids(got))

	b := Partition(me, entries, Filter{From: &from})
	assert.Equal(t, []string{"on-from", "on-to", "after"}, ids(b.Creator))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(" q ", "2026-01-02", "", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "q", f.Query)
	require.NotNil(t, f.From)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), *f.From)
	assert.Nil(t, f.To)

	_, err = ParseFilter("", "02.01.2026", "nope", time.UTC)
	require.Error(t, err)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "date_from")
	assert.Contains(t, verr.Fields, "date_to")
}

func TestParseTab(t *testing.T) {
	tab, err := ParseTab("")
	require.NoError(t, err)
	assert.Equal(t, TabCreator, tab)

	tab, err = ParseTab("completed")
	require.NoError(t, err)
	assert.Equal(t, TabCompleted, tab)

	_, err = ParseTab("archive")
	assert.True(t, model.IsValidation(err))
}

func TestRoleLabel(t *testing.T) {
	task := model.Task{ID: "t1", CreatorID: me, ResponsibleID: ptr("u-bob")}

	assert.Equal(t, LabelCreator, RoleLabel(me, task, &model.Participant{TaskID: "t1", UserID: me, Role: model.RoleObserver}))
	assert.Equal(t, LabelResponsible, RoleLabel("u-bob", task, nil))
	assert.Equal(t, "Executor", RoleLabel("u-carol", task, &model.Participant{TaskID: "t1", UserID: "u-carol", Role: model.RoleExecutor}))
	assert.Equal(t, "Observer", RoleLabel("u-carol", task, &model.Participant{TaskID: "t1", UserID: "u-carol", Role: model.RoleObserver}))
	assert.Equal(t, LabelNone, RoleLabel("u-dave", task, nil))
}

func TestDeadlineStatus(t *testing.T) {
	tests := []struct {
		name      string
		deadline  *time.Time
		completed bool
		want      Status
	}{
		{"no deadline", nil, false, StatusNoDeadline},
		{"no deadline completed", nil, true, StatusNoDeadline},
		{"completed past deadline", ptr(now.Add(-time.Hour)), true, StatusDone},
		{"an hour ago", ptr(now.Add(-time.Hour)), false, StatusOverdue},
		{"in 23 hours", ptr(now.Add(23 * time.Hour)), false, StatusSoon},
		{"exactly one day", ptr(now.Add(24 * time.Hour)), false, StatusSoon},
		{"in two days", ptr(now.Add(48 * time.Hour)), false, StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := model.Task{Deadline: tt.deadline, Completed: tt.completed}
			assert.Equal(t, tt.want, DeadlineStatus(task, now))

			item := model.ProjectItem{Deadline: tt.deadline, Completed: tt.completed}
			assert.Equal(t, tt.want, DeadlineStatus(item, now))
		})
	}
}

func TestExportRows(t *testing.T) {
	entries := fixture()
	entries[0].Task.Deadline = ptr(time.Date(2026, 6, 1, 15, 30, 0, 0, time.UTC))
	entries[0].Responsible = &model.User{ID: "u-bob", FirstName: "Bob", LastName: "Stone"}

	b := Partition(me, entries, Filter{})
	rows := ExportRows(me, b, time.UTC)

	require.Len(t, rows, len(b.All()))

	first := rows[0]
	assert.Equal(t, "task created", first[ColumnTitle])
	assert.Equal(t, "2026-06-01 15:30", first[ColumnDeadline])
	assert.Equal(t, "Bob Stone", first[ColumnResponsible])
	assert.Equal(t, LabelCreator, first[ColumnRole])
	assert.Equal(t, StatusLabelInProgress, first[ColumnStatus])

	byTitle := map[string]ExportRow{}
	for _, r := range rows {
		byTitle[r[ColumnTitle]] = r
	}
	assert.Equal(t, "", byTitle["task participant"][ColumnDeadline])
	assert.Equal(t, "", byTitle["task participant"][ColumnResponsible])
	assert.Equal(t, "Executor", byTitle["task participant"][ColumnRole])
	assert.Equal(t, StatusLabelCompleted, byTitle["task done-participant"][ColumnStatus])
	assert.Equal(t, "Observer", byTitle["task done-participant"][ColumnRole])
}

func TestSummarize(t *testing.T) {
	entries := fixture()
	entries[0].Task.Deadline = ptr(now.Add(-time.Hour))
	entries[4].Task.Deadline = ptr(now.Add(time.Hour))
	entries[5].Task.Deadline = ptr(now.Add(-time.Hour))

	s := Summarize(me, entries, now)
	assert.Equal(t, Stats{
		Total:       7,
		Completed:   2,
		Overdue:     1,
		Creator:     2,
		Responsible: 2,
		Participant: 1,
	}, s)
}
