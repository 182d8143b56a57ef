package projection

import "errors"

// ErrInvalidInput marks a table that cannot feed the pipeline. It is fatal.
var ErrInvalidInput = errors.New("invalid input")
