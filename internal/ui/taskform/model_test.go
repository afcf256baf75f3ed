package taskform

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/tasks"
)

func TestParseDeadline(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)

	d, err := parseDeadline("  ", loc)
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = parseDeadline("2026-06-01 09:30", loc)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2026, 6, 1, 9, 30, 0, 0, loc), *d)

	d, err = parseDeadline("2026-06-01", loc)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2026, 6, 1, 23, 59, 0, 0, loc), *d, "a bare date means the end of that day")

	_, err = parseDeadline("next friday", loc)
	assert.Error(t, err)
	_, err = parseDeadline("2026-13-01", loc)
	assert.Error(t, err)
}

func TestValidateTitle(t *testing.T) {
	assert.NoError(t, validateTitle("Write report"))
	assert.Error(t, validateTitle("   "))
	assert.NoError(t, validateTitle(strings.Repeat("a", tasks.MaxTitleLength)))
	assert.Error(t, validateTitle(strings.Repeat("a", tasks.MaxTitleLength+1)))
}

func TestBindingsInput(t *testing.T) {
	fb := newBindings()
	assert.Equal(t, model.RoleExecutor, fb.role)

	fb.title = "  Pay invoices "
	fb.description = " before Friday\n"
	fb.deadline = "2026-06-01 12:00"
	fb.responsibleID = "u2"
	fb.participantIDs = []string{"u3", "u4"}
	fb.role = model.RoleObserver

	in := fb.input(time.UTC)
	assert.Equal(t, "Pay invoices", in.Title)
	assert.Equal(t, "before Friday", in.Description)
	assert.Equal(t, "u2", in.ResponsibleID)
	require.NotNil(t, in.Deadline)
	assert.Equal(t, time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC), *in.Deadline)
	assert.Equal(t, []tasks.ParticipantInput{
		{UserID: "u3", Role: model.RoleObserver},
		{UserID: "u4", Role: model.RoleObserver},
	}, in.Participants)
}

func TestBindingsInputWithoutDeadline(t *testing.T) {
	fb := newBindings()
	fb.title = "Idea"

	in := fb.input(time.UTC)
	assert.Nil(t, in.Deadline)
	assert.Empty(t, in.Participants)
	assert.Empty(t, in.ResponsibleID)
}

func TestStartBuildsForm(t *testing.T) {
	self := model.User{ID: "u1", Username: "alice"}
	m := New(self, []model.User{{ID: "u2", Username: "bob"}}, nil, 80, 30)
	assert.Empty(t, m.View(), "nothing is shown before Start")

	m.Start()
	assert.Contains(t, m.View(), "New Task")
}
