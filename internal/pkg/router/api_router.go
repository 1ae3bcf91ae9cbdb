package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/clientbridge/clientbridge/app/controllers"
	"github.com/clientbridge/clientbridge/internal/pkg/middleware"
)

type ApiRouter struct {
	deps Deps
}

func NewApiRouter(deps Deps) *ApiRouter {
	return &ApiRouter{deps: deps}
}

func (h *ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	v1 := api.Group("/v1")

	// Public auth routes
	v1.Post("/auth/register", controllers.HandleRegister)
	v1.Post("/auth/login", controllers.HandleLogin)
	v1.Post("/auth/logout", controllers.HandleLogout)

	// Everything below accepts a session cookie or an API key
	authed := v1.Group("", middleware.APIOrSessionAuth(h.deps.Entitlements))

	authed.Post("/account/api-key", controllers.HandleGenerateAPIKey)

	nc := controllers.NewNotificationController(h.deps.Notifications)
	authed.Get("/notifications", nc.HandleList)
	authed.Put("/notifications", nc.HandleMarkRead)

	pc := controllers.NewPortalController(h.deps.Entitlements, h.deps.Notifier)
	authed.Get("/portals", pc.HandleListMine)
	authed.Post("/portals", middleware.RequireFreelancer, pc.HandleCreate)
	authed.Put("/portals/:uuid", middleware.RequireFreelancer, pc.HandleUpdate)
	authed.Delete("/portals/:uuid", middleware.RequireFreelancer, pc.HandleDelete)

	uc := controllers.NewUpdateController(h.deps.Entitlements, h.deps.Notifier)
	authed.Get("/portals/:uuid/updates", uc.HandleList)
	authed.Post("/portals/:uuid/updates", uc.HandleCreate)
	authed.Delete("/portals/:uuid/updates/:id", uc.HandleDelete)

	rc := controllers.NewReplyController(h.deps.Notifier)
	authed.Post("/updates/:id/replies", rc.HandleCreate)

	fc := controllers.NewFileController(h.deps.Entitlements, h.deps.Notifier)
	authed.Get("/portals/:uuid/files", fc.HandleList)
	authed.Post("/portals/:uuid/files", fc.HandleCreate)
	authed.Delete("/portals/:uuid/files/:id", fc.HandleDelete)
}
