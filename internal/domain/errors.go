package domain

import "errors"

// Broad error classes used across the domain. Specific errors wrap one of
// these so callers can classify with errors.Is without matching messages.
var (
	// ErrInvalidArgument is returned when input fails shape or bounds validation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState is returned when an operation is not legal for the
	// entity's current status.
	ErrInvalidState = errors.New("invalid state")

	// ErrNotOwned is returned when an ownership check fails.
	ErrNotOwned = errors.New("not owned by user")
)
