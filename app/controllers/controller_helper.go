package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/clientbridge/clientbridge/internal/pkg/entitlements"
	"github.com/clientbridge/clientbridge/internal/pkg/usercontext"
)

// requireUser resolves the authenticated user or writes a 401. The second
// return is false when the response has already been written.
func requireUser(c *fiber.Ctx) (usercontext.UserContext, bool) {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "Missing or invalid authentication",
		})
		return userCtx, false
	}
	return userCtx, true
}

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

// entitlementDenied writes the 403 shape for plan-limit denials. The reason
// is user-facing copy straight from the entitlement engine.
func entitlementDenied(c *fiber.Ctx, res entitlements.Result) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error":           res.Reason,
		"upgradeRequired": res.UpgradeRequired,
	})
}

// parseDateField parses an optional yyyy-mm-dd request field.
func parseDateField(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func firstHeaderValue(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		v := strings.TrimSpace(c.Get(k))
		if v != "" {
			return v
		}
	}
	return ""
}
