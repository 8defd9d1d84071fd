package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/tendevs/cards-api/internal/config"
	"github.com/tendevs/cards-api/internal/generation"
	"github.com/tendevs/cards-api/internal/platform/gemini"
	"github.com/tendevs/cards-api/internal/platform/openrouter"
	"github.com/tendevs/cards-api/internal/platform/postgres"
	"github.com/tendevs/cards-api/internal/service"
	"github.com/tendevs/cards-api/internal/service/auth"
	"github.com/tendevs/cards-api/internal/store"
)

// application holds the wired dependencies of a running server instance.
type application struct {
	config *config.Config
	db     *sql.DB

	userStore      store.UserStore
	sessionStore   store.SessionStore
	flashcardStore store.FlashcardStore

	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier

	generator         generation.Generator
	generationService service.GenerationService
	approvalService   service.ApprovalService
	flashcardService  service.FlashcardService
}

// newApplication wires all application components from configuration.
func newApplication(cfg *config.Config) (*application, error) {
	db, err := openDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to set up JWT service: %w", err)
	}

	generator, err := newGenerator(cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("failed to set up generator: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, nil)
	sessionStore := postgres.NewPostgresSessionStore(db, nil)
	flashcardStore := postgres.NewPostgresFlashcardStore(db, nil)

	return &application{
		config: cfg,
		db:     db,

		userStore:      userStore,
		sessionStore:   sessionStore,
		flashcardStore: flashcardStore,

		jwtService:       jwtService,
		passwordHasher:   auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		passwordVerifier: auth.NewBcryptVerifier(),

		generator:         generator,
		generationService: service.NewGenerationService(sessionStore, generator, nil),
		approvalService:   service.NewApprovalService(db, sessionStore, flashcardStore, nil),
		flashcardService:  service.NewFlashcardService(flashcardStore, nil),
	}, nil
}

// newGenerator selects the provider adapter from configuration.
func newGenerator(cfg config.AIConfig) (generation.Generator, error) {
	switch cfg.Provider {
	case "openrouter":
		return openrouter.NewService(cfg, nil)
	case "gemini":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return gemini.NewGenerator(ctx, cfg, nil)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// Close releases application resources.
func (app *application) Close() error {
	slog.Info("closing application resources")
	return app.db.Close()
}
