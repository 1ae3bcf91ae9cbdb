package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/clientbridge/clientbridge/app/repository"
	"github.com/clientbridge/clientbridge/internal/pkg/cache"
	"github.com/clientbridge/clientbridge/internal/pkg/database"
	"github.com/clientbridge/clientbridge/internal/pkg/entitlements"
	"github.com/clientbridge/clientbridge/internal/pkg/env"
	"github.com/clientbridge/clientbridge/internal/pkg/notify"
	"github.com/clientbridge/clientbridge/internal/pkg/plans"
	"github.com/clientbridge/clientbridge/internal/pkg/router"
	"github.com/clientbridge/clientbridge/internal/pkg/scheduler"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	scheduler.GetManager().Stop()
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.InitializeFactory(database.GetDB())
	repos := repository.GetGlobalRepositories()

	registry := plans.DefaultRegistry()
	engine := entitlements.NewEngine(registry, repos.Subscription, repos.Portal, repository.NewUsage(repos))
	notifier := notify.NewEngine(repos.Portal, repos.User)
	notifications := notify.NewService(repos.Notification)

	sched := scheduler.GetManager()
	sched.Configure(
		scheduler.NewReminderSweep(repos.Portal, repos.Notification),
		scheduler.NewOrphanSweep(repos.Notification, repos.Update),
	)
	sched.Start()

	app := fiber.New(fiber.Config{
		AppName:   "ClientBridge",
		BodyLimit: 10 * 1024 * 1024,
	})
	app.Use(recover.New(), logger.New())

	router.InstallRouter(app, router.Deps{
		Entitlements:  engine,
		Notifier:      notifier,
		Notifications: notifications,
	})

	return app
}
