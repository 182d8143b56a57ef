// Package matchup joins team defensive ratings onto player records and
// describes how hard the opponent defends.
package matchup

import (
	"sort"

	"github.com/okian/propcast/internal/domain/model"
)

// Rank cutoffs. Lower rank means a tougher defense.
const (
	// ToughMatchupRank marks a matchup note as tough.
	ToughMatchupRank = 5
	// DefensePenaltyRank is the cutoff used by confidence scoring and prop filters.
	DefensePenaltyRank = 10
	// GreatMatchupRank and above is a weak defense.
	GreatMatchupRank = 20
)

// Descriptor strings.
const (
	NoteTough       = "tough matchup"
	NoteGreat       = "great matchup"
	NoteNeutral     = "neutral matchup"
	NoteUnavailable = "matchup data unavailable"
)

// TeamRating is a raw, unranked defensive rating.
type TeamRating struct {
	Team   string
	Rating float64
}

// Rank assigns dense ascending ranks: the lowest rating gets rank 1 and equal
// ratings share a rank. Team names are mapped to abbreviations.
func Rank(ratings []TeamRating) []model.DefensiveRating {
	sorted := make([]TeamRating, len(ratings))
	copy(sorted, ratings)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rating < sorted[j].Rating })

	out := make([]model.DefensiveRating, 0, len(sorted))
	rank := 0
	for i, r := range sorted {
		if i == 0 || r.Rating != sorted[i-1].Rating {
			rank++
		}
		out = append(out, model.DefensiveRating{
			Team:   model.TeamAbbreviation(r.Team),
			Rating: r.Rating,
			Rank:   rank,
		})
	}
	return out
}

// Enrich left-joins ratings onto records by Opponent = Team. Records whose
// opponent has no rating keep nil rating fields. The input is not modified.
func Enrich(records []model.PlayerStatRecord, ratings []model.DefensiveRating) ([]model.PlayerStatRecord, int) {
	byTeam := make(map[string]model.DefensiveRating, len(ratings))
	for _, r := range ratings {
		byTeam[r.Team] = r
	}

	misses := 0
	out := make([]model.PlayerStatRecord, len(records))
	for i, rec := range records {
		rec.DefRating, rec.DefRatingRank = nil, nil
		if r, ok := byTeam[rec.Opponent]; ok {
			rating, rank := r.Rating, r.Rank
			rec.DefRating = &rating
			rec.DefRatingRank = &rank
		} else {
			misses++
		}
		out[i] = rec
	}
	return out, misses
}

// Thresholds holds the configurable rank cutoffs.
type Thresholds struct {
	Tough int
	Great int
}

// DefaultThresholds returns the note cutoffs (5 and 20).
func DefaultThresholds() Thresholds {
	return Thresholds{Tough: ToughMatchupRank, Great: GreatMatchupRank}
}

// Describe renders the matchup note for a rank. A nil rank is unavailable.
func (t Thresholds) Describe(rank *int) string {
	switch {
	case rank == nil:
		return NoteUnavailable
	case *rank <= t.Tough:
		return NoteTough
	case *rank >= t.Great:
		return NoteGreat
	default:
		return NoteNeutral
	}
}

// Describe uses the given tough cutoff with the default great cutoff.
func Describe(rank *int, toughCutoff int) string {
	return Thresholds{Tough: toughCutoff, Great: GreatMatchupRank}.Describe(rank)
}
