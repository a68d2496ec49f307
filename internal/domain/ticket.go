package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In-Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// DefaultCategory is applied when a ticket is created without one.
const DefaultCategory = "General"

// Ticket is the aggregate for support requests. Tickets are never
// hard-deleted; Closed is a status, not removal.
type Ticket struct {
	ID               string
	Subject          string
	Description      string
	Status           TicketStatus
	Priority         TicketPriority
	Category         string
	CreatorID        string
	AssignedAgentID  *string
	HappinessRating  *int
	CustomerFeedback *string
	TimeSpentMinutes *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ResolvedAt       *time.Time
}

// KnownStatus reports whether s is one of the four lifecycle states.
func KnownStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// KnownPriority reports whether p is a recognized priority level.
func KnownPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}
