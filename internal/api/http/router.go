package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-pro/helpdesk-service/internal/api/http/handlers"
	"github.com/helpdesk-pro/helpdesk-service/internal/auth"
	"github.com/helpdesk-pro/helpdesk-service/internal/policy"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Users          *handlers.UsersHandler
	KB             *handlers.KBHandler
	Notifications  *handlers.NotificationsHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	session := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	session.Get("/me", cfg.Auth.Me)
	session.Post("/password/change", cfg.Auth.ChangePassword)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireRoute(policy.RouteTickets))
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Patch("/:id/priority", cfg.Tickets.UpdatePriority)
	tickets.Patch("/:id/assignee", cfg.Tickets.Assign)
	tickets.Post("/:id/feedback", cfg.Tickets.SubmitFeedback)
	tickets.Post("/:id/time", cfg.Tickets.LogTime)
	tickets.Post("/:id/replies", cfg.Tickets.AddReply)
	tickets.Get("/:id/replies", cfg.Tickets.ListReplies)
	tickets.Get("/:id/history", cfg.Tickets.ListHistory)
	tickets.Get("/:id/insight", cfg.Tickets.GetInsight)
	tickets.Post("/:id/attachments", cfg.Tickets.AddAttachment)
	tickets.Get("/:id/attachments", cfg.Tickets.ListAttachments)

	attachments := app.Group("/attachments", cfg.AuthMiddleware.Handle, auth.RequireRoute(policy.RouteTickets))
	attachments.Get("", cfg.Tickets.ResolveAttachment)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	users.Get("/agents", auth.RequireStaff(), cfg.Users.ListAgents)
	users.Get("", auth.RequireRoute(policy.RouteUsers), cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Patch("/:id", cfg.Users.Update)
	users.Post("/:id/toggle-status", auth.RequireRoute(policy.RouteUsers), cfg.Users.ToggleStatus)
	users.Delete("/:id", auth.RequireRoute(policy.RouteUsers), cfg.Users.Delete)

	kb := app.Group("/kb", cfg.AuthMiddleware.Handle, auth.RequireRoute(policy.RouteKB))
	kb.Get("/articles", cfg.KB.List)
	kb.Post("/articles", auth.RequireStaff(), cfg.KB.Create)
	kb.Get("/articles/:id", cfg.KB.Get)
	kb.Get("/categories", cfg.KB.Categories)
	kb.Get("/search", cfg.KB.Search)

	notifications := app.Group("/notifications", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	notifications.Get("", cfg.Notifications.List)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)

	analytics := app.Group("/analytics", cfg.AuthMiddleware.Handle, auth.RequireRoute(policy.RouteDashboard))
	analytics.Get("/summary", cfg.Analytics.Summary)
}
