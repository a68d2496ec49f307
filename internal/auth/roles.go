package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-pro/helpdesk-service/internal/policy"
	apperrors "github.com/helpdesk-pro/helpdesk-service/pkg/util/errorutil"
)

// RequireAuthenticated ensures a principal is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireStaff ensures the caller holds a staff role.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || !policy.IsStaff(principal.Role()) {
			return apperrors.NewForbidden("staff role required")
		}
		return c.Next()
	}
}

// RequireRoute gates a handler group on the route allow-list.
func RequireRoute(route policy.RouteID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || !policy.CanViewRoute(principal.Role(), route) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
