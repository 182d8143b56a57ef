package odds

import "errors"

// Sentinel kinds for odds errors.
var (
	ErrInvalidOdds     = errors.New("invalid american odds")
	ErrNonIntegralOdds = errors.New("american odds must be integral")
)
