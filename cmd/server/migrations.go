package main

import (
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/tendevs/cards-api/internal/config"
	"github.com/tendevs/cards-api/migrations"
)

// runMigrations applies the embedded goose migrations. Supported commands are
// up, down, and status.
func runMigrations(cfg *config.Config, command string) error {
	db, err := openDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close migration database connection", "error", err)
		}
	}()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(&slogGooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	switch command {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	slog.Info("migration command completed", "command", command)
	return nil
}

// slogGooseLogger adapts goose's logger interface to slog.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...), "source", "goose")
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), "source", "goose")
}
