package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/adpilot-io/adpilot/app/repository"
	"github.com/adpilot-io/adpilot/internal/pkg/autopilot"
	"github.com/adpilot-io/adpilot/internal/pkg/billing"
	"github.com/adpilot-io/adpilot/internal/pkg/cache"
	"github.com/adpilot-io/adpilot/internal/pkg/database"
	"github.com/adpilot-io/adpilot/internal/pkg/env"
	"github.com/adpilot-io/adpilot/internal/pkg/jobs"
	"github.com/adpilot-io/adpilot/internal/pkg/platform"
	"github.com/adpilot-io/adpilot/internal/pkg/router"
)

func main() {
	app, scheduler := NewApplication()
	defer scheduler.Stop()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() (*fiber.App, *jobs.Scheduler) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	repos := repository.GetGlobalRepositories()
	billingSvc := billing.NewServiceFromDB(database.GetDB())

	// Platform API clients register their adapters on the executor; the
	// engine only sees the dispatch interface.
	executor := platform.NewExecutor()
	engine := autopilot.NewEngine(repos.AdAccount, repos.AutopilotLog, platform.NewCachedMetrics(), executor)

	scheduler := jobs.NewScheduler(billingSvc, engine)
	scheduler.Start()

	app := fiber.New(fiber.Config{
		AppName: "AdPilot",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	router.SetupAPIRoutes(app)

	return app, scheduler
}
