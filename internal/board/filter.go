// Package board partitions a user's visible tasks into role buckets and
// derives the read-time values shown alongside them: role labels,
// deadline urgency, export rows and dashboard counts.
//
// Nothing here touches storage. The store hands over every task the
// user can see as a slice of Entry values and the functions in this
// package are evaluated fresh on every view.
package board

import (
	"strings"
	"time"

	"github.com/nhle/taskboard/internal/model"
)

// DateLayout is the accepted format for deadline bound filters.
const DateLayout = "2006-01-02"

// Entry is one task visible to the requesting user, joined with its
// responsible user and the requesting user's own participant role.
type Entry struct {
	Task        model.Task
	Responsible *model.User

	// ViewerRole is the requesting user's participant role on the
	// task, or empty when they hold no participant row.
	ViewerRole model.Role
}

// Participant returns the viewer's participant row for the entry, or
// nil when they hold none.
func (e Entry) Participant(userID string) *model.Participant {
	if e.ViewerRole == "" {
		return nil
	}
	return &model.Participant{TaskID: e.Task.ID, UserID: userID, Role: e.ViewerRole}
}

// Filter narrows the visible tasks before bucketing. Zero value matches
// everything.
type Filter struct {
	// Query matches title, description, or the responsible user's
	// first or last name, case-insensitively.
	Query string

	// From and To are inclusive deadline bounds.
	From *time.Time
	To   *time.Time
}

// ParseFilter builds a Filter from raw request values. Dates use
// DateLayout and resolve to midnight in loc. Unparseable dates produce
// a ValidationError naming date_from or date_to.
func ParseFilter(query, from, to string, loc *time.Location) (Filter, error) {
	if loc == nil {
		loc = time.UTC
	}
	f := Filter{Query: strings.TrimSpace(query)}
	verr := &model.ValidationError{}

	if from = strings.TrimSpace(from); from != "" {
		t, err := time.ParseInLocation(DateLayout, from, loc)
		if err != nil {
			verr.Add("date_from", "expected YYYY-MM-DD")
		} else {
			f.From = &t
		}
	}
	if to = strings.TrimSpace(to); to != "" {
		t, err := time.ParseInLocation(DateLayout, to, loc)
		if err != nil {
			verr.Add("date_to", "expected YYYY-MM-DD")
		} else {
			f.To = &t
		}
	}

	if err := verr.OrNil(); err != nil {
		return Filter{}, err
	}
	return f, nil
}

// IsZero reports whether the filter has no active criteria.
func (f Filter) IsZero() bool {
	return f.Query == "" && f.From == nil && f.To == nil
}

// Match reports whether e satisfies every active criterion. A task
// without a deadline fails any active deadline bound.
func (f Filter) Match(e Entry) bool {
	if f.Query != "" && !matchesText(e, f.Query) {
		return false
	}
	if f.From != nil || f.To != nil {
		d := e.Task.Deadline
		if d == nil {
			return false
		}
		if f.From != nil && d.Before(*f.From) {
			return false
		}
		if f.To != nil && d.After(*f.To) {
			return false
		}
	}
	return true
}

func matchesText(e Entry, query string) bool {
	q := strings.ToLower(query)
	if containsFold(e.Task.Title, q) || containsFold(e.Task.Description, q) {
		return true
	}
	if e.Responsible != nil {
		return containsFold(e.Responsible.FirstName, q) || containsFold(e.Responsible.LastName, q)
	}
	return false
}

// containsFold reports whether s contains the already-lowercased q.
func containsFold(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}

// Apply returns the entries matching f, preserving order.
func (f Filter) Apply(entries []Entry) []Entry {
	if f.IsZero() {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
