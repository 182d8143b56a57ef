package model

import "time"

// RefreshRequest asks the service to reload the data directory and publish a new run.
type RefreshRequest struct {
	ID          string    `json:"id"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
	// Seed pins slip sampling; nil lets the service pick one.
	Seed *int64 `json:"seed,omitempty"`
	// Force publishes even when the tables and seed match a published run.
	Force bool `json:"force,omitempty"`
}

// Refresh reasons.
const (
	ReasonStartup = "startup"
	ReasonAPI     = "api"
	ReasonWatch   = "watch"
)
