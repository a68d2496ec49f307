package domain

import "time"

// Reply is a message posted on a ticket thread. Internal replies are
// staff-only notes and must never be shown to customers.
type Reply struct {
	ID         string
	TicketID   string
	AuthorID   string
	AuthorName string
	Message    string
	IsInternal bool
	CreatedAt  time.Time
}

// Attachment stores file metadata attached to a ticket. The bytes
// themselves live in external storage under StorageKey.
type Attachment struct {
	ID         string
	TicketID   string
	UploaderID string
	FileName   string
	StorageKey string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}
