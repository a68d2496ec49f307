package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-pro/helpdesk-service/internal/auth"
	"github.com/helpdesk-pro/helpdesk-service/internal/service"
	apperrors "github.com/helpdesk-pro/helpdesk-service/pkg/util/errorutil"
)

// AnalyticsHandler serves dashboard aggregates.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: analyticsService}
}

// Summary GET /analytics/summary.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	reportRange := c.Query("range", service.RangeAll)
	summary, err := h.service.GetSummary(c.UserContext(), principal.User, reportRange)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}
