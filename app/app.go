package app

import (
	"log/slog"
	"push-tray/database"
	"push-tray/retention"
	"push-tray/services"
	"push-tray/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Repo      *database.Repository
	Manager   *services.SubscriptionManager
	Retention *retention.Worker
	Validator *validator.Validator
	Logger    *slog.Logger
}

// New creates a new App instance with all dependencies
func New(repo *database.Repository, manager *services.SubscriptionManager, retentionWorker *retention.Worker, logger *slog.Logger) *App {
	return &App{
		Repo:      repo,
		Manager:   manager,
		Retention: retentionWorker,
		Validator: validator.New(),
		Logger:    logger,
	}
}
