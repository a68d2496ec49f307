// Package sla derives response deadlines from ticket creation time and
// reports how much of the window is left.
package sla

import (
	"fmt"
	"time"
)

// DefaultWindow is the time allowed between ticket creation and first
// response before the SLA counts as breached.
const DefaultWindow = 2 * time.Hour

// urgencyThreshold marks the point at which remaining time is surfaced
// with emphasis. Informational only; nothing escalates automatically.
const urgencyThreshold = 2 * time.Hour

// State describes where the clock stands relative to the deadline.
type State string

const (
	StateCounting        State = "Counting"
	StateBreached        State = "Breached"
	StateNoDeadline      State = "NoDeadline"
	StateInvalidDeadline State = "InvalidDeadline"
)

// Remaining is a point-in-time reading of the SLA clock.
type Remaining struct {
	State       State
	HoursLeft   int
	MinutesLeft int
	Urgent      bool
}

// Display renders the reading the way clients show it.
func (r Remaining) Display() string {
	switch r.State {
	case StateNoDeadline:
		return "No Deadline"
	case StateInvalidDeadline:
		return "Invalid Deadline"
	case StateBreached:
		return "SLA Breached"
	default:
		return fmt.Sprintf("%dh %dm remaining", r.HoursLeft, r.MinutesLeft)
	}
}

// Deadline computes the SLA deadline for a ticket created at createdAt.
func Deadline(createdAt time.Time, window time.Duration) time.Time {
	if window <= 0 {
		window = DefaultWindow
	}
	return createdAt.Add(window)
}

// Compute returns the clock reading for deadline at the given instant.
// Pure function of its inputs: identical arguments yield identical
// results, and any now at or past the deadline yields Breached.
func Compute(deadline, now time.Time) Remaining {
	if deadline.IsZero() {
		return Remaining{State: StateNoDeadline}
	}
	distance := deadline.Sub(now)
	if distance <= 0 {
		return Remaining{State: StateBreached, Urgent: true}
	}
	hours := int(distance / time.Hour)
	minutes := int((distance % time.Hour) / time.Minute)
	return Remaining{
		State:       StateCounting,
		HoursLeft:   hours,
		MinutesLeft: minutes,
		Urgent:      distance < urgencyThreshold,
	}
}

// ParseDeadline interprets a stored deadline string. Empty input maps to
// NoDeadline and malformed input to InvalidDeadline; neither is an error
// the caller should crash on.
func ParseDeadline(value string) (time.Time, State) {
	if value == "" {
		return time.Time{}, StateNoDeadline
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, StateInvalidDeadline
	}
	return t, StateCounting
}
