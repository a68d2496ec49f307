package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-pro/helpdesk-service/internal/auth"
	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
	"github.com/helpdesk-pro/helpdesk-service/internal/service"
	apperrors "github.com/helpdesk-pro/helpdesk-service/pkg/util/errorutil"
)

// KBHandler serves the knowledge base endpoints.
type KBHandler struct {
	service *service.KBService
}

// NewKBHandler constructs handler.
func NewKBHandler(kbService *service.KBService) *KBHandler {
	return &KBHandler{service: kbService}
}

// List GET /kb/articles.
func (h *KBHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	limit, offset := parsePagination(c)
	articles, err := h.service.List(c.UserContext(), principal.User, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articles})
}

// Get GET /kb/articles/:id.
func (h *KBHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	article, err := h.service.Get(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": article})
}

// Categories GET /kb/categories.
func (h *KBHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categories})
}

// Search GET /kb/search.
func (h *KBHandler) Search(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	limit, _ := parsePagination(c)
	articles, err := h.service.Search(c.UserContext(), principal.User, c.Query("q"), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articles})
}

// Create POST /kb/articles.
func (h *KBHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req struct {
		Title      string                   `json:"title"`
		Content    string                   `json:"content"`
		Category   string                   `json:"category"`
		Tags       []string                 `json:"tags"`
		Visibility domain.ArticleVisibility `json:"visibility"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.service.Create(c.UserContext(), principal.User, service.ArticleInput{
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		Tags:       req.Tags,
		Visibility: req.Visibility,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": article})
}
