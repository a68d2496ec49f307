package domain

import "time"

// Notification is a per-recipient feed record produced by the fan-out.
// Once read it never reverts to unread.
type Notification struct {
	ID          string
	RecipientID string
	Message     string
	TicketID    *string
	IsRead      bool
	CreatedAt   time.Time
}
