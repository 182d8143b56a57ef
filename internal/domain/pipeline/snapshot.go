// Package pipeline runs the projection-to-recommendation flow over one
// immutable snapshot of input tables.
package pipeline

import (
	"fmt"

	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/odds"
	"github.com/okian/propcast/internal/domain/projection"
)

// CategoryTables are the raw inputs for one stat category. When Projections
// is set it is used as the Edge table and Quotes/Form are ignored.
type CategoryTables struct {
	Category    model.Category
	Quotes      []odds.QuoteRow
	Form        []model.FormRow
	Projections []model.PlayerStatRecord
}

// Tables is everything loaded for a run.
type Tables struct {
	Categories []CategoryTables
	Defense    []model.DefensiveRating
	Esports    []model.EsportsLine
}

// Snapshot is the merged, validated input of a run. Treat it as read-only.
type Snapshot struct {
	Records []model.PlayerStatRecord
	Ratings []model.DefensiveRating
	Esports []model.EsportsLine
	// Skipped lists category:player keys dropped by the merge.
	Skipped []string
}

// Build normalizes odds, projects form and merges each category into one
// Edge table. Invalid tables fail the whole build.
func Build(t Tables, w projection.Weights) (Snapshot, error) {
	var snap Snapshot
	for _, ct := range t.Categories {
		if ct.Projections != nil {
			snap.Records = append(snap.Records, withCategory(ct.Projections, ct.Category)...)
			continue
		}
		best := odds.Normalize(ct.Quotes)
		projections := projection.Generate(ct.Form, w)
		merged, err := projection.Merge(ct.Category, projections, best, ct.Form)
		if err != nil {
			return Snapshot{}, fmt.Errorf("merge %s: %w", ct.Category, err)
		}
		snap.Records = append(snap.Records, merged.Records...)
		for _, p := range merged.Skipped {
			snap.Skipped = append(snap.Skipped, string(ct.Category)+":"+p)
		}
	}
	if err := projection.Validate(snap.Records); err != nil {
		return Snapshot{}, err
	}
	snap.Ratings = append([]model.DefensiveRating(nil), t.Defense...)
	snap.Esports = append([]model.EsportsLine(nil), t.Esports...)
	return snap, nil
}

func withCategory(records []model.PlayerStatRecord, cat model.Category) []model.PlayerStatRecord {
	out := make([]model.PlayerStatRecord, len(records))
	for i, r := range records {
		if r.Category == "" {
			r.Category = cat
		}
		out[i] = r
	}
	return out
}
