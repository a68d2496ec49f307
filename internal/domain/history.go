package domain

import "time"

// HistoryEntry is an immutable audit record of a single field change.
// Entries are append-only; nothing updates or deletes them.
type HistoryEntry struct {
	ID        string
	TicketID  string
	ActorName string
	Field     string
	OldValue  string
	NewValue  string
	CreatedAt time.Time
}

// Fields recorded in ticket history.
const (
	HistoryFieldStatus   = "status"
	HistoryFieldAssignee = "assigned_agent"
	HistoryFieldPriority = "priority"
)
