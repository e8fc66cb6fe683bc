package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	ErrMsgUserNotFound   = "user not found"
	ErrMsgFlowerNotFound = "flower not found"
	ErrMsgShareNotFound  = "share link not found"

	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgNotShareable      = "flower is not shareable"
	ErrMsgShareExpired      = "share link expired"
	ErrMsgAlreadyClaimed    = "gift already claimed"
	ErrMsgSelfClaim         = "cannot claim own gift"
	ErrMsgCatalogMissing    = "catalog entry missing"
	ErrMsgInvalidInput      = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrUserNotFound   = errors.New(ErrMsgUserNotFound)
	ErrFlowerNotFound = errors.New(ErrMsgFlowerNotFound)
	ErrShareNotFound  = errors.New(ErrMsgShareNotFound)

	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrNotShareable      = errors.New(ErrMsgNotShareable)
	ErrShareExpired      = errors.New(ErrMsgShareExpired)
	ErrAlreadyClaimed    = errors.New(ErrMsgAlreadyClaimed)
	ErrSelfClaim         = errors.New(ErrMsgSelfClaim)
	ErrCatalogMissing    = errors.New(ErrMsgCatalogMissing)
	ErrInvalidInput      = errors.New(ErrMsgInvalidInput)
)
