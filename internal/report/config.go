// Package report builds and prints a props and slips report, either from a
// local data directory or from a running propcast server.
package report

import (
	"errors"
	"time"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Sentinel kinds for report errors.
var (
	ErrNoSource      = errors.New("either a data dir or a server url is required")
	ErrUnknownFormat = errors.New("unknown report format")
	ErrServer        = errors.New("server returned an error")
)

// Config holds configuration for one report.
type Config struct {
	DataDir string        // Local data directory; wins over BaseURL
	BaseURL string        // Base URL of a running service
	Format  string        // text or json
	Seed    *int64        // Slip seed; nil uses the configured or run seed
	Preset  string        // Slip preset, e.g. two-mans
	Timeout time.Duration // HTTP request timeout
}

// Validate checks that the config names a source and a known format.
func (c Config) Validate() error {
	if c.DataDir == "" && c.BaseURL == "" {
		return ErrNoSource
	}
	switch c.Format {
	case "", FormatText, FormatJSON:
		return nil
	default:
		return ErrUnknownFormat
	}
}
