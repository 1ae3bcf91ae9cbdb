package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clientbridge/clientbridge/internal/pkg/entitlements"
	"github.com/clientbridge/clientbridge/internal/pkg/notify"
)

// Router installs a set of routes into the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// Deps carries the engine instances the routes close over. Built once in
// main and threaded through; no route reaches for engine globals.
type Deps struct {
	Entitlements  *entitlements.Engine
	Notifier      *notify.Engine
	Notifications *notify.Service
}

func InstallRouter(app *fiber.App, deps Deps) {
	// The HTTP router goes first: it initializes the session store and the
	// global user-context middleware the API routes depend on.
	setup(app, NewHttpRouter(deps), NewApiRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
