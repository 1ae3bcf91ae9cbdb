package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clientbridge/clientbridge/app/controllers"
	"github.com/clientbridge/clientbridge/internal/pkg/middleware"
	"github.com/clientbridge/clientbridge/internal/pkg/session"
)

type HttpRouter struct {
	deps Deps
}

func NewHttpRouter(deps Deps) *HttpRouter {
	return &HttpRouter{deps: deps}
}

func (h *HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Provider webhooks authenticate by signature, not by session.
	app.Post("/webhooks/billing", controllers.HandleBillingWebhook)
}
