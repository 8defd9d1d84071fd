// Package domain defines the core business entities of the application:
// generation sessions, flashcard suggestions, flashcards, and users.
// Entities enforce their own invariants; all state changes go through
// named business methods, and persistence sees state only via snapshots.
package domain
