package models

import "errors"

// Sentinel errors shared by the service layer. Handlers map these to
// HTTP statuses with errors.Is; anything unmatched becomes a 500.
var (
	// ErrNotFound covers both "no such entity" and "entity owned by a
	// different user" — the two are indistinguishable to the caller.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means no resolved caller identity.
	ErrUnauthorized = errors.New("authentication required")

	// ErrValidation means a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrRateLimited means a quota was exhausted (invite generation).
	ErrRateLimited = errors.New("rate limit exceeded")
)
