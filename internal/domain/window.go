package domain

import "time"

// ReminderLead is how far ahead of an event's start reminders go out.
const ReminderLead = 60 * time.Second

// Window is the closed interval [Start, End] a scan considers due.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds [now, now+lead] in loc, with now truncated to whole seconds.
func NewWindow(now time.Time, loc *time.Location, lead time.Duration) Window {
	start := Normalize(now, loc)
	return Window{Start: start, End: start.Add(lead)}
}

// Contains reports whether t lies in the window. Both ends are inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
