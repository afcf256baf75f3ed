package board

import "time"

// Stats summarises a user's visible tasks for the dashboard.
type Stats struct {
	Total       int `json:"total"`
	Completed   int `json:"completed"`
	Overdue     int `json:"overdue"`
	Creator     int `json:"creator"`
	Responsible int `json:"responsible"`
	Participant int `json:"participant"`
}

// Summarize counts userID's visible tasks. Overdue counts incomplete
// tasks whose deadline is before now.
func Summarize(userID string, entries []Entry, now time.Time) Stats {
	b := Partition(userID, entries, Filter{})

	s := Stats{
		Completed:   len(b.Completed),
		Creator:     len(b.Creator),
		Responsible: len(b.Responsible),
		Participant: len(b.Participant),
	}
	s.Total = s.Completed + s.Creator + s.Responsible + s.Participant

	for _, bucket := range [][]Entry{b.Creator, b.Responsible, b.Participant} {
		for _, e := range bucket {
			if Classify(e.Task.Deadline, false, now) == StatusOverdue {
				s.Overdue++
			}
		}
	}
	return s
}
