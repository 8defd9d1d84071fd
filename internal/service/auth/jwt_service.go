package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Claims holds the validated claims extracted from a token.
type Claims struct {
	UserID    uuid.UUID
	TokenType string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// JWTService issues and validates access and refresh tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for the user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates an access token and returns its claims.
	// Returns ErrExpiredToken, ErrWrongTokenType, or ErrInvalidToken.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed refresh token for the user.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken validates a refresh token and returns its claims.
	// Returns ErrExpiredRefreshToken, ErrWrongTokenType, or
	// ErrInvalidRefreshToken.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}
