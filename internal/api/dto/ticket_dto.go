package dto

import (
	"time"

	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
	"github.com/helpdesk-pro/helpdesk-service/internal/sla"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    string                `json:"category"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority domain.TicketPriority `json:"priority"`
}

// AssignRequest payload. An empty agent_id unassigns.
type AssignRequest struct {
	AgentID string `json:"agent_id"`
}

// CreateReplyRequest payload.
type CreateReplyRequest struct {
	Message    string `json:"message"`
	IsInternal bool   `json:"is_internal"`
}

// FeedbackRequest payload.
type FeedbackRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// LogTimeRequest payload.
type LogTimeRequest struct {
	Minutes int `json:"minutes"`
}

// CreateAttachmentRequest registers upload metadata.
type CreateAttachmentRequest struct {
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// TicketResponse is the ticket shape after role redaction.
type TicketResponse struct {
	ID               string                `json:"id"`
	Subject          string                `json:"subject"`
	Description      string                `json:"description"`
	Status           domain.TicketStatus   `json:"status"`
	Priority         domain.TicketPriority `json:"priority"`
	Category         string                `json:"category"`
	CreatorID        string                `json:"creator_id"`
	AssignedAgentID  *string               `json:"assigned_agent_id,omitempty"`
	Deadline         *time.Time            `json:"deadline,omitempty"`
	SLA              *SLAResponse          `json:"sla,omitempty"`
	HappinessRating  *int                  `json:"happiness_rating,omitempty"`
	CustomerFeedback *string               `json:"customer_feedback,omitempty"`
	TimeSpentMinutes *int                  `json:"time_spent_minutes,omitempty"`
	ResolvedAt       *time.Time            `json:"resolved_at,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// SLAResponse is the response-clock readout for one ticket.
type SLAResponse struct {
	State       string `json:"state"`
	Display     string `json:"display"`
	HoursLeft   int    `json:"hours_left"`
	MinutesLeft int    `json:"minutes_left"`
	Urgent      bool   `json:"urgent"`
}

// ReplyResponse represents one thread entry.
type ReplyResponse struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticket_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Message    string    `json:"message"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

// HistoryResponse is one audit trail entry.
type HistoryResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	ActorName string    `json:"actor_name"`
	Field     string    `json:"field"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	CreatedAt time.Time `json:"created_at"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticket_id"`
	FileName   string    `json:"file_name"`
	StorageKey string    `json:"storage_key"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewSLAResponse converts a clock readout.
func NewSLAResponse(remaining sla.Remaining) *SLAResponse {
	return &SLAResponse{
		State:       string(remaining.State),
		Display:     remaining.Display(),
		HoursLeft:   remaining.HoursLeft,
		MinutesLeft: remaining.MinutesLeft,
		Urgent:      remaining.Urgent,
	}
}
