package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"backend/internal/config"
	"backend/internal/notifier"
	"backend/internal/reminder"
	"backend/internal/repository"
	"backend/internal/server"
	"backend/internal/token"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	secret, usedFallback := cfg.ResolveJWTSecret()
	if usedFallback {
		logger.Warn("JWT secret not configured, using the development fallback. Set JWT_SECRET in production.")
	}
	codec := token.NewCodec([]byte(secret))

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Reminder worker with optional Telegram delivery
	if cfg.Reminders.Enabled {
		tg, err := notifier.NewTelegram(cfg, logger)
		if err != nil {
			logger.Warn("Failed to initialize Telegram notifier, continuing without it", zap.Error(err))
			tg = nil
		}

		userRepo := repository.NewUserRepository(db, logger)
		taskRepo := repository.NewTaskRepository(db, logger)

		pollInterval := cfg.Reminders.PollIntervalSeconds
		if pollInterval <= 0 {
			pollInterval = 60
		}

		worker := reminder.NewWorker(taskRepo, userRepo, notifierOrNil(tg), logger, pollInterval)
		go worker.Run(ctx)
	}

	// Initialize and run the server; Run blocks until shutdown completes.
	srv := server.NewServer(db, cfg, codec, logger)
	srv.Run(ctx, cfg.Server.Port)

	logger.Info("Application stopped.")
}

// notifierOrNil avoids storing a typed nil in the worker's interface field.
func notifierOrNil(tg *notifier.Telegram) reminder.Notifier {
	if tg == nil {
		return nil
	}
	return tg
}
