package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"camcore"
	"camcore/internal/config"
	"camcore/internal/server"
	"camcore/internal/store"
)

func main() {
	cfg := config.Load()

	level := slog.LevelInfo
	if cfg.Environment == "development" {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	camcore.SetLogger(log)

	if err := run(cfg, log); err != nil {
		log.Error("camd stopped", "error", err)
		os.Exit(1)
	}
}

// run serves until the listener fails. The job store is closed on every
// return path.
func run(cfg *config.Config, log *slog.Logger) error {
	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	jobs, err := store.Open(context.Background(), cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open job store %s: %w", cfg.DBPath, err)
	}
	defer func() {
		if err := jobs.Close(); err != nil {
			log.Error("close job store", "error", err)
		}
	}()

	app := server.New(cfg, server.NewHandler(jobs, profile))

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info("starting camd", "addr", addr, "env", cfg.Environment, "profile", profile.Name)
	return app.Listen(addr)
}
