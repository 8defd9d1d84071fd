// Package service contains the application services: generation
// orchestration, suggestion approval, and flashcard management. Services
// coordinate domain aggregates, stores, and the AI provider port; they never
// reach into aggregate internals directly.
package service
