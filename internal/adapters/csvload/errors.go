package csvload

import "errors"

// Sentinel kinds for table loading errors.
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrMissingFile   = errors.New("missing required table")
	ErrInvalidValue  = errors.New("invalid table value")
	ErrNoTables      = errors.New("no category tables found")
)
