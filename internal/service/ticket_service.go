package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
	"github.com/helpdesk-pro/helpdesk-service/internal/events"
	"github.com/helpdesk-pro/helpdesk-service/internal/policy"
	"github.com/helpdesk-pro/helpdesk-service/internal/repository"
	apperrors "github.com/helpdesk-pro/helpdesk-service/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows: creation, the status state
// machine, assignment, replies, and the audit trail.
type TicketService struct {
	tickets    repository.TicketRepository
	replies    repository.ReplyRepository
	history    repository.HistoryRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	ReplyRepo   repository.ReplyRepository
	HistoryRepo repository.HistoryRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject     string
	Description string
	Priority    domain.TicketPriority
	Category    string
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	Category    *string
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		replies:    deps.ReplyRepo,
		history:    deps.HistoryRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket creates a ticket on behalf of actor.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)
	if subject == "" || description == "" {
		return nil, apperrors.NewValidationError("subject and description required", nil)
	}

	ticket := &domain.Ticket{
		Subject:     subject,
		Description: description,
		Status:      domain.TicketStatusOpen,
		Priority:    input.Priority,
		Category:    strings.TrimSpace(input.Category),
		CreatorID:   actor.ID,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if !domain.KnownPriority(ticket.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": ticket.Priority})
	}
	if ticket.Category == "" {
		ticket.Category = domain.DefaultCategory
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketCreated,
		TicketID:  ticket.ID,
		ActorID:   actor.ID,
		ActorName: actorName(actor),
		Payload: events.TicketCreatedPayload{
			Subject:   ticket.Subject,
			Priority:  ticket.Priority,
			Category:  ticket.Category,
			CreatorID: ticket.CreatorID,
		},
	})
	return ticket, nil
}

// ListTickets returns tickets visible to actor. Customers are scoped to
// their own tickets; staff see everything the filter matches. Hidden
// columns are redacted per role.
func (s *TicketService) ListTickets(ctx context.Context, actor *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		Statuses:    filter.Statuses,
		Priorities:  filter.Priorities,
		Category:    filter.Category,
		SearchTerm:  filter.SearchTerm,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	if !policy.IsStaff(actor.Role) {
		repoFilter.CreatorID = &actor.ID
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range tickets {
		tickets[i] = policy.RedactTicket(actor.Role, tickets[i])
	}
	return tickets, nil
}

// GetTicket fetches a single ticket, enforcing ownership for customers
// and redacting staff-only columns.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.loadAccessible(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	redacted := policy.RedactTicket(actor.Role, *ticket)
	return &redacted, nil
}

// Transition moves a ticket to newStatus. Any known status is reachable
// from any other (skips forward and re-opens are deliberate); only the
// actor is restricted. Exactly one history entry is appended on success
// and none on failure.
func (s *TicketService) Transition(ctx context.Context, actor *domain.User, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if !policy.CanChangeStatus(actor.Role) {
		return nil, apperrors.NewForbidden("role may not change ticket status")
	}
	if !domain.KnownStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	switch newStatus {
	case domain.TicketStatusResolved, domain.TicketStatusClosed:
		if ticket.ResolvedAt == nil {
			now := time.Now()
			ticket.ResolvedAt = &now
		}
	default:
		ticket.ResolvedAt = nil
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordChange(ctx, actor, ticket.ID, domain.HistoryFieldStatus, string(oldStatus), string(newStatus)); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketStatusChanged,
		TicketID:  ticket.ID,
		ActorID:   actor.ID,
		ActorName: actorName(actor),
		Payload: events.TicketStatusChangedPayload{
			OldStatus:   oldStatus,
			NewStatus:   newStatus,
			RequesterID: ticket.CreatorID,
			AssigneeID:  ticket.AssignedAgentID,
		},
	})
	return ticket, nil
}

// Assign sets or clears the ticket's assigned agent. An empty agentID
// unassigns. The target must exist and hold a staff role.
func (s *TicketService) Assign(ctx context.Context, actor *domain.User, ticketID, agentID string) (*domain.Ticket, error) {
	if !policy.CanAssignAgent(actor.Role) {
		return nil, apperrors.NewForbidden("role may not assign tickets")
	}

	var newAssignee *string
	if agentID != "" {
		agent, err := s.users.GetByID(ctx, agentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewInvalidAssignee(map[string]any{"agent_id": agentID})
			}
			return nil, apperrors.MapError(err)
		}
		if !policy.IsStaff(agent.Role) {
			return nil, apperrors.NewInvalidAssignee(map[string]any{"agent_id": agentID, "role": agent.Role})
		}
		newAssignee = &agent.ID
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	oldAssignee := ticket.AssignedAgentID
	ticket.AssignedAgentID = newAssignee
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordChange(ctx, actor, ticket.ID, domain.HistoryFieldAssignee, derefOrEmpty(oldAssignee), derefOrEmpty(newAssignee)); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketAssigned,
		TicketID:  ticket.ID,
		ActorID:   actor.ID,
		ActorName: actorName(actor),
		Payload: events.TicketAssignedPayload{
			AssigneeID:  ticket.AssignedAgentID,
			RequesterID: ticket.CreatorID,
		},
	})
	return ticket, nil
}

// UpdatePriority changes ticket priority, staff only.
func (s *TicketService) UpdatePriority(ctx context.Context, actor *domain.User, ticketID string, newPriority domain.TicketPriority) (*domain.Ticket, error) {
	if !policy.IsStaff(actor.Role) {
		return nil, apperrors.NewForbidden("role may not change ticket priority")
	}
	if !domain.KnownPriority(newPriority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": newPriority})
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	oldPriority := ticket.Priority
	ticket.Priority = newPriority
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordChange(ctx, actor, ticket.ID, domain.HistoryFieldPriority, string(oldPriority), string(newPriority)); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// AddReply appends a message to the ticket thread. Customers may only
// reply on their own tickets and may never post internal notes.
func (s *TicketService) AddReply(ctx context.Context, actor *domain.User, ticketID, message string, isInternal bool) (*domain.Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}

	ticket, err := s.loadAccessible(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if isInternal && !policy.IsStaff(actor.Role) {
		return nil, apperrors.NewForbidden("internal notes are staff only")
	}

	reply := &domain.Reply{
		TicketID:   ticket.ID,
		AuthorID:   actor.ID,
		AuthorName: actorName(actor),
		Message:    message,
		IsInternal: isInternal,
	}
	if err := s.replies.Create(ctx, reply); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketReplyAdded,
		TicketID:  ticket.ID,
		ActorID:   actor.ID,
		ActorName: actorName(actor),
		Payload: events.TicketReplyAddedPayload{
			ReplyID:     reply.ID,
			IsInternal:  reply.IsInternal,
			RequesterID: ticket.CreatorID,
			AssigneeID:  ticket.AssignedAgentID,
			BodyPreview: stringPreview(reply.Message, 120),
		},
	})
	return reply, nil
}

// ListReplies returns the ticket thread, filtered by the actor's role.
func (s *TicketService) ListReplies(ctx context.Context, actor *domain.User, ticketID string) ([]domain.Reply, error) {
	if _, err := s.loadAccessible(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	replies, err := s.replies.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return policy.VisibleReplies(actor.Role, replies), nil
}

// ListHistory returns the append-only audit trail for a ticket.
func (s *TicketService) ListHistory(ctx context.Context, actor *domain.User, ticketID string) ([]domain.HistoryEntry, error) {
	if _, err := s.loadAccessible(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// SubmitFeedback records a happiness rating on a resolved or closed
// ticket. Only the ticket's creator may rate it.
func (s *TicketService) SubmitFeedback(ctx context.Context, actor *domain.User, ticketID string, rating int, feedback string) (*domain.Ticket, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": rating})
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CreatorID != actor.ID {
		return nil, apperrors.NewForbidden("only the ticket creator may rate it")
	}
	if ticket.Status != domain.TicketStatusResolved && ticket.Status != domain.TicketStatusClosed {
		return nil, apperrors.NewConflict("ticket must be resolved before rating", nil)
	}
	ticket.HappinessRating = &rating
	if trimmed := strings.TrimSpace(feedback); trimmed != "" {
		ticket.CustomerFeedback = &trimmed
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// LogTimeSpent adds worked minutes to the ticket's accumulator, staff only.
func (s *TicketService) LogTimeSpent(ctx context.Context, actor *domain.User, ticketID string, minutes int) (*domain.Ticket, error) {
	if !policy.IsStaff(actor.Role) {
		return nil, apperrors.NewForbidden("time logging is staff only")
	}
	if minutes <= 0 {
		return nil, apperrors.NewValidationError("minutes must be positive", map[string]any{"minutes": minutes})
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	total := minutes
	if ticket.TimeSpentMinutes != nil {
		total += *ticket.TimeSpentMinutes
	}
	ticket.TimeSpentMinutes = &total
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) loadAccessible(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.IsStaff(actor.Role) && ticket.CreatorID != actor.ID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

func (s *TicketService) recordChange(ctx context.Context, actor *domain.User, ticketID, field, oldValue, newValue string) error {
	return s.history.Create(ctx, &domain.HistoryEntry{
		TicketID:  ticketID,
		ActorName: actorName(actor),
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
	})
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorName(actor *domain.User) string {
	if actor == nil {
		return "system"
	}
	if actor.Name != "" {
		return actor.Name
	}
	return actor.Email
}

func derefOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
