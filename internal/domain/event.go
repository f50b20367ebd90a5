package domain

import "time"

// Event is a scheduled happening users can register for.
// Start is already normalized to the reference timezone and truncated to seconds.
type Event struct {
	ID       string
	Name     string
	Start    time.Time
	Display  string // stored time value as the user originally saw it
	Location string
}

// User is a registered participant looked up by external account ID.
type User struct {
	AccountID        string
	Name             string
	Email            string
	RegisteredEvents []string // event IDs, unordered, may be empty
}

// Reminder is a single message addressed to one recipient.
type Reminder struct {
	To        string
	EventName string
	EventTime string
	Location  string
}
