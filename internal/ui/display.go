package ui

import "time"

// DefaultDateLayout is used when no date layout is configured.
const DefaultDateLayout = "2006-01-02"

// Display holds how views render times: the time zone and the date
// layout from display.timezone and display.date_format.
type Display struct {
	Location   *time.Location
	DateLayout string
}

// NewDisplay returns a Display for loc and layout, falling back to UTC
// and DefaultDateLayout for zero values.
func NewDisplay(loc *time.Location, layout string) Display {
	if loc == nil {
		loc = time.UTC
	}
	if layout == "" {
		layout = DefaultDateLayout
	}
	return Display{Location: loc, DateLayout: layout}
}

// Date formats t as a date in the display zone.
func (d Display) Date(t time.Time) string {
	d = NewDisplay(d.Location, d.DateLayout)
	return t.In(d.Location).Format(d.DateLayout)
}

// DateTime formats t as a date followed by hours and minutes.
func (d Display) DateTime(t time.Time) string {
	d = NewDisplay(d.Location, d.DateLayout)
	return t.In(d.Location).Format(d.DateLayout + " 15:04")
}
