package scoring

import "errors"

// ErrInvalidInput is returned when a record cannot be scored.
var ErrInvalidInput = errors.New("invalid scoring input")
