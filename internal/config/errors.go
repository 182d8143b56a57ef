package config

import "errors"

var (
	// ErrInvalidConfig marks a value outside the range the pipeline accepts.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a file, env or decode failure.
	ErrLoadConfig = errors.New("load config failed")
)
