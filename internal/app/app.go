package app

import (
	"context"

	"freshnest/config"
	"freshnest/internal/controllers"
	"freshnest/internal/database"
	"freshnest/internal/events"
	"freshnest/internal/handlers/middleware"
	"freshnest/internal/jobs"
	"freshnest/internal/repositories"
	"freshnest/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
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

	eventBus := events.New(db.Cache.Events, config)

	repos := repositories.New(db)

	svc, err := services.New(db, config, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	middleware := middleware.New(db, eventBus, config, repos)
	ctrl := controllers.New(svc, repos, eventBus, config, db)

	if err := jobs.RegisterAllJobs(svc.Scheduler, config, svc, repos); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware,
		EventBus:    eventBus,
		Repos:       repos,
		Services:    svc,
		Controllers: ctrl,
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

	nilChecks := []any{
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Settings,
		a.Services.EffortCalculator,
		a.Services.Pricing,
		a.Services.Availability,
		a.Services.Matching,
		a.Services.Checklist,
		a.Services.Payout,
		a.Services.Tier,
		a.Services.Metrics,
		a.Services.Statement,
		a.Controllers.Booking,
		a.Controllers.Payout,
		a.Controllers.Estimate,
		a.Controllers.Admin,
		a.Repos.Setting,
		a.Repos.Task,
		a.Repos.Zone,
		a.Repos.Member,
		a.Repos.Cleaner,
		a.Repos.Job,
		a.Repos.Checklist,
		a.Repos.Rating,
		a.Repos.Note,
		a.Repos.PayoutBatch,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
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
