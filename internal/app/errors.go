package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNoRun      = errors.New("no run published yet")
	ErrNoSource   = errors.New("no table source configured")
	// ErrValidation wraps input table and query errors. The HTTP layer maps
	// it to 422.
	ErrValidation = errors.New("validation failed")
)
