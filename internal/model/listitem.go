package model

import "time"

// ListItem is anything with a deadline and a completion flag that can
// be highlighted by urgency in a list. Tasks and project items both
// implement it.
type ListItem interface {
	GetTitle() string
	GetDeadline() *time.Time
	IsCompleted() bool
}

func (t Task) GetTitle() string        { return t.Title }
func (t Task) GetDeadline() *time.Time { return t.Deadline }
func (t Task) IsCompleted() bool       { return t.Completed }

func (i ProjectItem) GetTitle() string        { return i.Title }
func (i ProjectItem) GetDeadline() *time.Time { return i.Deadline }
func (i ProjectItem) IsCompleted() bool       { return i.Completed }
