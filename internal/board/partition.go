package board

import (
	"fmt"

	"github.com/nhle/taskboard/internal/model"
)

// Tab selects one role bucket for display.
type Tab string

// Role bucket tabs, in display order.
const (
	TabCreator     Tab = "creator"
	TabResponsible Tab = "responsible"
	TabParticipant Tab = "participant"
	TabCompleted   Tab = "completed"
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabCreator, TabResponsible, TabParticipant, TabCompleted}

// ParseTab returns the tab named s. An empty string selects the creator
// tab; anything else unknown is an error.
func ParseTab(s string) (Tab, error) {
	if s == "" {
		return TabCreator, nil
	}
	for _, t := range Tabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", model.NewValidationError("tab", fmt.Sprintf("unknown tab %q", s))
}

// Label returns the heading shown for the tab.
func (t Tab) Label() string {
	switch t {
	case TabCreator:
		return "Created by me"
	case TabResponsible:
		return "I'm responsible"
	case TabParticipant:
		return "I participate"
	case TabCompleted:
		return "Completed"
	}
	return string(t)
}

// Buckets holds a user's visible tasks split by role.
//
// Every incomplete task lands in exactly one of Creator, Responsible or
// Participant, with that precedence. Completed holds every completed
// task once, whatever the user's role on it.
type Buckets struct {
	Creator     []Entry
	Responsible []Entry
	Participant []Entry
	Completed   []Entry
}

// Get returns the bucket for tab.
func (b Buckets) Get(tab Tab) []Entry {
	switch tab {
	case TabResponsible:
		return b.Responsible
	case TabParticipant:
		return b.Participant
	case TabCompleted:
		return b.Completed
	default:
		return b.Creator
	}
}

// Counts returns the size of each bucket keyed by tab.
func (b Buckets) Counts() map[Tab]int {
	return map[Tab]int{
		TabCreator:     len(b.Creator),
		TabResponsible: len(b.Responsible),
		TabParticipant: len(b.Participant),
		TabCompleted:   len(b.Completed),
	}
}

// All returns the union of the four buckets, deduplicated by task id,
// in bucket order.
func (b Buckets) All() []Entry {
	seen := make(map[string]bool)
	var out []Entry
	for _, bucket := range [][]Entry{b.Creator, b.Responsible, b.Participant, b.Completed} {
		for _, e := range bucket {
			if seen[e.Task.ID] {
				continue
			}
			seen[e.Task.ID] = true
			out = append(out, e)
		}
	}
	return out
}

// Partition applies f to entries and splits the matches into buckets
// for userID. Entries the user has no relationship with are dropped.
// Duplicate entries for the same task are collapsed to the first.
func Partition(userID string, entries []Entry, f Filter) Buckets {
	var b Buckets
	seen := make(map[string]bool, len(entries))

	for _, e := range f.Apply(entries) {
		if seen[e.Task.ID] {
			continue
		}
		t := e.Task
		isCreator := t.IsCreator(userID)
		isResponsible := t.IsResponsible(userID)
		isParticipant := e.ViewerRole != ""
		if !isCreator && !isResponsible && !isParticipant {
			continue
		}
		seen[t.ID] = true

		switch {
		case t.Completed:
			b.Completed = append(b.Completed, e)
		case isCreator:
			b.Creator = append(b.Creator, e)
		case isResponsible:
			b.Responsible = append(b.Responsible, e)
		default:
			b.Participant = append(b.Participant, e)
		}
	}
	return b
}
