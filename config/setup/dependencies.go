package setup

import (
	"log/slog"
	"push-tray/app"
	"push-tray/config"
	"push-tray/database"
	"push-tray/retention"
	"push-tray/services"
)

// InitDatabase initializes the SQLite database and runs migrations
func InitDatabase(dbPath string, logger *slog.Logger) (*database.DB, error) {
	db, err := database.New(dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database initialized", "path", dbPath)
	return db, nil
}

// InitApp initializes the application with all dependencies
func InitApp(db *database.DB, logger *slog.Logger) *app.App {
	repo := database.NewRepository(db)

	manager := services.NewSubscriptionManager(repo, logger)

	// Background pruning keeps the local store bounded
	retentionWorker := retention.NewWorker(manager,
		config.AppConfig.RetentionDuration, config.AppConfig.PruneInterval, logger)
	retentionWorker.Start()
	logger.Info("retention worker started",
		"retention", config.AppConfig.RetentionDuration,
		"interval", config.AppConfig.PruneInterval)

	application := app.New(repo, manager, retentionWorker, logger)
	logger.Info("application initialized")

	return application
}

// Shutdown performs graceful shutdown of all services
func Shutdown(retentionWorker *retention.Worker, db *database.DB, logger *slog.Logger) {
	logger.Info("shutting down services...")

	if retentionWorker != nil {
		retentionWorker.Stop()
		logger.Info("retention worker stopped")
	}

	if db != nil {
		db.Close()
		logger.Info("database closed")
	}
}
