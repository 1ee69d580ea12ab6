package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gamma-omg/chanlun/internal/analyzer"
	"github.com/gamma-omg/chanlun/internal/config"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// .env is optional, plain environment variables work as well
	_ = godotenv.Load()

	cfg, err := config.ReadFromFile(os.Getenv("CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.Default()
	a := analyzer.New(logger, *cfg)

	if err := a.Run(ctx); err != nil {
		logger.Error("analysis finished with errors", slog.Any("error", err))
	}

	if cfg.Schedule == "" {
		return
	}

	c, err := newScheduler(cfg.Schedule, func() {
		if err := a.Run(ctx); err != nil {
			logger.Error("scheduled analysis finished with errors", slog.Any("error", err))
		}
	})
	if err != nil {
		log.Fatal(err)
	}

	c.Start()
	logger.Info("scheduler started", slog.String("schedule", cfg.Schedule))

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info("scheduler stopped")
}

// newScheduler runs job on schedule. A run is skipped while the previous one
// is still in progress.
func newScheduler(schedule string, job func()) (*cron.Cron, error) {
	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := c.AddFunc(schedule, job); err != nil {
		return nil, fmt.Errorf("failed to register schedule: %w", err)
	}

	return c, nil
}
