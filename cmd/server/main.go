// Package main implements the entry point for the cards API server: user
// accounts, AI flashcard generation sessions, suggestion approval, and
// flashcard management.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/tendevs/cards-api/internal/config"
	"github.com/tendevs/cards-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(logger.Config{Level: cfg.Server.LogLevel})

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"ai_provider", cfg.AI.Provider)

	if *migrateCmd != "" {
		if err := runMigrations(cfg, *migrateCmd); err != nil {
			slog.Error("migration failed", "command", *migrateCmd, "error", err)
			os.Exit(1)
		}
		return
	}

	app, err := newApplication(cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			slog.Error("failed to close application", "error", err)
		}
	}()

	if err := runServer(app, fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
