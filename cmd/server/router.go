package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tendevs/cards-api/internal/api"
	apimiddleware "github.com/tendevs/cards-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.passwordVerifier,
		tokenLifetime(app.config),
	)
	generationHandler := api.NewGenerationHandler(app.generationService, app.approvalService)
	flashcardHandler := api.NewFlashcardHandler(app.flashcardService)
	healthHandler := api.NewHealthHandler(app.db, app.generator)

	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Generation session endpoints
			r.Post("/generations", generationHandler.StartGeneration)
			r.Get("/generations/{id}", generationHandler.GetSession)
			r.Get("/generations/{id}/suggestions", generationHandler.GetSuggestions)
			r.Post("/generations/{id}/approve", generationHandler.ApproveSuggestions)

			// Flashcard endpoints
			r.Get("/flashcards", flashcardHandler.ListFlashcards)
			r.Post("/flashcards", flashcardHandler.CreateFlashcard)
			r.Put("/flashcards/{id}", flashcardHandler.UpdateFlashcard)
			r.Delete("/flashcards/{id}", flashcardHandler.DeleteFlashcard)
		})
	})

	r.Get("/health", healthHandler.Health)

	return r
}
