// Package projection builds the Edge table: a weighted projection per player
// joined with the best market line and recent form.
package projection

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/odds"
)

// Default projection weights.
const (
	DefaultL10Weight = 0.6
	DefaultH2HWeight = 0.4
)

// Weights blends the rolling and head-to-head averages.
type Weights struct {
	L10 float64
	H2H float64
}

// DefaultWeights returns 60% L10 and 40% H2H.
func DefaultWeights() Weights {
	return Weights{L10: DefaultL10Weight, H2H: DefaultH2HWeight}
}

// Projection is the projected value for one player.
type Projection struct {
	Player       string
	AIProjection float64
}

// Generate projects every form row. A missing H2H average falls back to L10.
func Generate(form []model.FormRow, w Weights) []Projection {
	out := make([]Projection, 0, len(form))
	for _, row := range form {
		p := row.L10
		if row.H2H != nil {
			// Products are materialized so the sum is not fused.
			p = float64(row.L10*w.L10) + float64(*row.H2H*w.H2H)
		}
		out = append(out, Projection{Player: row.Player, AIProjection: p})
	}
	return out
}

// MergeResult is the merged Edge table plus the rows skipped for lookup misses.
type MergeResult struct {
	Records []model.PlayerStatRecord
	Skipped []string
}

// Merge left-joins projections with best odds and form rows on player. Rows
// without form or without a line are skipped and reported, not raised, and so
// are quoted players with no projection. Odds that are not integral are an
// input error.
func Merge(category model.Category, projections []Projection, best []odds.BestOdds, form []model.FormRow) (MergeResult, error) {
	if !category.Valid() {
		return MergeResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, model.ErrUnknownCategory)
	}

	bestByPlayer := make(map[string]odds.BestOdds, len(best))
	for _, b := range best {
		if _, dup := bestByPlayer[b.Player]; !dup {
			bestByPlayer[b.Player] = b
		}
	}
	formByPlayer := make(map[string]model.FormRow, len(form))
	for _, f := range form {
		if _, dup := formByPlayer[f.Player]; !dup {
			formByPlayer[f.Player] = f
		}
	}

	var res MergeResult
	projected := make(map[string]struct{}, len(projections))
	for _, p := range projections {
		projected[p.Player] = struct{}{}
		f, okForm := formByPlayer[p.Player]
		b, okOdds := bestByPlayer[p.Player]
		line, okLine := b.Line()
		if !okForm || !okOdds || !okLine {
			res.Skipped = append(res.Skipped, p.Player)
			continue
		}
		over, err := b.OverAmerican()
		if err != nil {
			return MergeResult{}, fmt.Errorf("%w: %s over: %w", ErrInvalidInput, p.Player, err)
		}
		under, err := b.UnderAmerican()
		if err != nil {
			return MergeResult{}, fmt.Errorf("%w: %s under: %w", ErrInvalidInput, p.Player, err)
		}
		res.Records = append(res.Records, model.PlayerStatRecord{
			Player:        p.Player,
			Category:      category,
			Opponent:      f.Opponent,
			BestLine:      line,
			AIProjection:  p.AIProjection,
			L10:           f.L10,
			H2H:           f.H2H,
			BestOverOdds:  over,
			BestUnderOdds: under,
		})
	}

	// Map order varies, so sort.
	var unprojected []string
	for player := range bestByPlayer {
		if _, ok := projected[player]; !ok {
			unprojected = append(unprojected, player)
		}
	}
	sort.Strings(unprojected)
	res.Skipped = append(res.Skipped, unprojected...)
	return res, nil
}

// Validate checks the fields later stages divide by or compare against, and
// that every category:player key appears once.
func Validate(records []model.PlayerStatRecord) error {
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if _, dup := seen[r.Key()]; dup {
			return fmt.Errorf("%w: %s: duplicate row", ErrInvalidInput, r.Key())
		}
		seen[r.Key()] = struct{}{}
		switch {
		case strings.TrimSpace(r.Player) == "":
			return fmt.Errorf("%w: row %d: missing player", ErrInvalidInput, i)
		case !r.Category.Valid():
			return fmt.Errorf("%w: row %d: %w %q", ErrInvalidInput, i, model.ErrUnknownCategory, r.Category)
		case !finite(r.BestLine) || !finite(r.AIProjection) || !finite(r.L10):
			return fmt.Errorf("%w: %s %s: non-numeric value", ErrInvalidInput, r.Player, r.Category)
		case r.BestLine <= 0:
			return fmt.Errorf("%w: %s %s: line must be positive, got %v", ErrInvalidInput, r.Player, r.Category, r.BestLine)
		case r.StdDev != nil && (!finite(*r.StdDev) || *r.StdDev <= 0):
			return fmt.Errorf("%w: %s %s: std dev must be positive", ErrInvalidInput, r.Player, r.Category)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
