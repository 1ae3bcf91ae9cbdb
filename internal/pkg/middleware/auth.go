package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clientbridge/clientbridge/app/models"
	icuser "github.com/clientbridge/clientbridge/internal/pkg/usercontext"
)

// RequireAPISessionAuth ensures a logged-in session for API routes and returns JSON 401 instead of redirect.
func RequireAPISessionAuth(c *fiber.Ctx) error {
	v := c.Locals(icuser.KeyFromProtected)
	loggedIn := false
	if b, ok := v.(bool); ok {
		loggedIn = b
	}
	if !loggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}

// RequireFreelancer ensures the logged-in user acts as a freelancer. Portal
// lifecycle routes are freelancer-only; clients participate in existing
// portals but never own them.
func RequireFreelancer(c *fiber.Ctx) error {
	userCtx := icuser.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	if userCtx.Role != models.ROLE_FREELANCER && userCtx.Role != models.ROLE_ADMIN {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "freelancer account required",
		})
	}
	return c.Next()
}
