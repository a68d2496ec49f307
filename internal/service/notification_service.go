package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
	"github.com/helpdesk-pro/helpdesk-service/internal/events"
	"github.com/helpdesk-pro/helpdesk-service/internal/repository"
	apperrors "github.com/helpdesk-pro/helpdesk-service/pkg/util/errorutil"
)

// NotificationService materializes ticket events into per-recipient
// feed records and serves the feed.
type NotificationService struct {
	notifications repository.NotificationRepository
	logger        *zap.Logger
}

// NotificationDependencies bundles the notification service inputs.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	Logger           *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		notifications: deps.NotificationRepo,
		logger:        logger,
	}
}

// RegisterHandlers subscribes the fan-out to ticket events.
func (s *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketStatusChanged, s.onStatusChanged)
	dispatcher.Subscribe(events.EventTicketAssigned, s.onAssigned)
	dispatcher.Subscribe(events.EventTicketReplyAdded, s.onReplyAdded)
}

// ListForUser returns the recipient's feed, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.Notification, error) {
	items, err := s.notifications.ListByRecipient(ctx, actor.ID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// UnreadCount returns how many of the given notifications are unread.
func UnreadCount(items []domain.Notification) int {
	count := 0
	for _, item := range items {
		if !item.IsRead {
			count++
		}
	}
	return count
}

// MarkRead marks one notification read. Repeating the call is a no-op.
// A recipient may only touch their own notifications.
func (s *NotificationService) MarkRead(ctx context.Context, actor *domain.User, notificationID string) (*domain.Notification, error) {
	notification, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("notification", map[string]any{"notification_id": notificationID})
		}
		return nil, apperrors.MapError(err)
	}
	if notification.RecipientID != actor.ID {
		return nil, apperrors.NewForbidden("notification belongs to another user")
	}
	if notification.IsRead {
		return notification, nil
	}
	if err := s.notifications.MarkRead(ctx, notificationID); err != nil {
		return nil, apperrors.MapError(err)
	}
	notification.IsRead = true
	return notification, nil
}

func (s *NotificationService) onStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("%s changed ticket status from %s to %s", event.ActorName, payload.OldStatus, payload.NewStatus)
	return s.deliver(ctx, event, message, payload.RequesterID, payload.AssigneeID)
}

func (s *NotificationService) onAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("%s updated the ticket assignment", event.ActorName)
	if payload.AssigneeID != nil {
		message = fmt.Sprintf("%s assigned the ticket", event.ActorName)
	}
	return s.deliver(ctx, event, message, payload.RequesterID, payload.AssigneeID)
}

func (s *NotificationService) onReplyAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketReplyAddedPayload)
	if !ok {
		return nil
	}
	if payload.IsInternal {
		// Internal notes only reach the assignee; the requester must
		// never learn they exist.
		if payload.AssigneeID == nil || *payload.AssigneeID == event.ActorID {
			return nil
		}
		message := fmt.Sprintf("%s added an internal note", event.ActorName)
		return s.createRecord(ctx, event, *payload.AssigneeID, message)
	}
	message := fmt.Sprintf("%s replied: %s", event.ActorName, payload.BodyPreview)
	return s.deliver(ctx, event, message, payload.RequesterID, payload.AssigneeID)
}

// deliver writes one record per interested recipient, skipping the
// actor so nobody is notified about their own action.
func (s *NotificationService) deliver(ctx context.Context, event events.Event, message, requesterID string, assigneeID *string) error {
	recipients := make([]string, 0, 2)
	if requesterID != "" && requesterID != event.ActorID {
		recipients = append(recipients, requesterID)
	}
	if assigneeID != nil && *assigneeID != event.ActorID && *assigneeID != requesterID {
		recipients = append(recipients, *assigneeID)
	}

	var errs []error
	for _, recipientID := range recipients {
		if err := s.createRecord(ctx, event, recipientID, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *NotificationService) createRecord(ctx context.Context, event events.Event, recipientID, message string) error {
	ticketID := event.TicketID
	notification := &domain.Notification{
		RecipientID: recipientID,
		Message:     message,
		TicketID:    &ticketID,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		s.logger.Error("notification delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("recipient_id", recipientID),
			zap.Error(err))
		return err
	}
	return nil
}
