// Package auth provides authentication services: JWT access/refresh token
// issuance and validation, and bcrypt password hashing.
package auth

import "errors"

// Token validation errors. The API layer maps all of them to 401.
var (
	// ErrInvalidToken indicates a malformed token or bad signature.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates the access token's expiry has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrTokenNotYetValid indicates the token's not-before time is in the future.
	ErrTokenNotYetValid = errors.New("token not yet valid")

	// ErrWrongTokenType indicates an access token was presented where a
	// refresh token was required, or vice versa.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrInvalidRefreshToken indicates a malformed refresh token or bad signature.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrExpiredRefreshToken indicates the refresh token's expiry has passed.
	ErrExpiredRefreshToken = errors.New("refresh token expired")
)
