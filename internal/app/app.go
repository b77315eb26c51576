package app

import (
	"context"
	"vehiclecare/config"
	"vehiclecare/internal/controllers"
	"vehiclecare/internal/database"
	"vehiclecare/internal/events"
	"vehiclecare/internal/handlers/middleware"
	"vehiclecare/internal/jobs"
	"vehiclecare/internal/repositories"
	"vehiclecare/internal/services"
	"vehiclecare/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	Repos       repositories.Repository
	Services    services.Service
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events)
	repos := repositories.New(db)

	services, err := services.New(db, config, eventBus, repos)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	controllers := controllers.New(services)
	middleware := middleware.New(config, controllers.Auth)

	websocket, err := websockets.New(eventBus, controllers.Auth)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	if err := jobs.RegisterAllJobs(services.Scheduler, config, services); err != nil {
		return &App{}, log.Err("failed to register scheduled jobs", err)
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := map[string]any{
		"websocket":              a.Websocket,
		"eventBus":               a.EventBus,
		"schedulerService":       a.Services.Scheduler,
		"notificationService":    a.Services.Notification,
		"reminderService":        a.Services.Reminder,
		"authController":         a.Controllers.Auth,
		"vehicleController":      a.Controllers.Vehicle,
		"reminderController":     a.Controllers.Reminder,
		"notificationController": a.Controllers.Notification,
	}

	for name, check := range nilChecks {
		if check == nil {
			return log.Error("nil check failed", "component", name)
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
