package selection

import "errors"

var (
	// ErrInvalidSlipSize is returned when a slip size is outside 1..4.
	ErrInvalidSlipSize = errors.New("slip size must be between 1 and 4")
	// ErrNilRand is returned when slips are drawn without a random source.
	ErrNilRand = errors.New("random source is required")
)
