// Package repository stores published pipeline runs.
package repository

import (
	"context"
	"time"

	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/pipeline"
)

// Run is one published pipeline result and the inputs needed to re-draw
// slips or answer searches without reloading the tables.
type Run struct {
	ID          string              `json:"id"`
	CreatedAt   time.Time           `json:"created_at"`
	Reason      string              `json:"reason"`
	Seed        int64               `json:"seed"`
	Fingerprint string              `json:"fingerprint"`
	Result      pipeline.Result     `json:"result"`
	Esports     []model.EsportsLine `json:"esports,omitempty"`
}

// Summary is the listing view of a run.
type Summary struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Reason       string    `json:"reason"`
	Seed         int64     `json:"seed"`
	Fingerprint  string    `json:"fingerprint"`
	BoardSize    int       `json:"board_size"`
	BestProps    int       `json:"best_props"`
	Slips        int       `json:"slips"`
	LookupMisses int       `json:"lookup_misses"`
}

// Summary returns the listing view of r.
func (r Run) Summary() Summary {
	return Summary{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt,
		Reason:       r.Reason,
		Seed:         r.Seed,
		Fingerprint:  r.Fingerprint,
		BoardSize:    len(r.Result.Board),
		BestProps:    len(r.Result.BestProps),
		Slips:        len(r.Result.Slips),
		LookupMisses: r.Result.LookupMisses,
	}
}

// Store keeps a bounded history of runs, newest first.
type Store interface {
	// Save publishes run as the latest one.
	Save(ctx context.Context, run Run) error

	// Get returns a run by ID or ErrNotFound.
	Get(ctx context.Context, id string) (Run, error)

	// Latest returns the newest run or ErrNotFound when nothing was published.
	Latest(ctx context.Context) (Run, error)

	// List returns up to limit summaries, newest first.
	List(ctx context.Context, limit int) ([]Summary, error)

	// Count returns the number of runs retained.
	Count(ctx context.Context) (int, error)
}
