package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-pro/helpdesk-service/internal/auth"
	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
	"github.com/helpdesk-pro/helpdesk-service/internal/service"
	apperrors "github.com/helpdesk-pro/helpdesk-service/pkg/util/errorutil"
)

// NotificationsHandler serves the per-user notification feed.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

type notificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	TicketID  *string   `json:"ticket_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// List GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	limit, offset := parsePagination(c)
	items, err := h.service.ListForUser(c.UserContext(), principal.User, limit, offset)
	if err != nil {
		return err
	}
	responses := make([]notificationResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toNotificationResponse(&items[i]))
	}
	return c.JSON(fiber.Map{
		"data":         responses,
		"unread_count": service.UnreadCount(items),
	})
}

// MarkRead POST /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	notification, err := h.service.MarkRead(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toNotificationResponse(notification)})
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		TicketID:  n.TicketID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
