package model

import "strings"

// PlayerStatRecord is one row of the Edge table: a player's projection and
// best market for a single stat category.
type PlayerStatRecord struct {
	Player       string   `json:"player"`
	Category     Category `json:"category"`
	Opponent     string   `json:"opponent"`
	BestLine     float64  `json:"best_line"`
	AIProjection float64  `json:"ai_projection"`
	L10          float64  `json:"l10"`
	H2H          *float64 `json:"h2h,omitempty"`

	// American odds; nil means no market on that side.
	BestOverOdds  *int `json:"best_over_odds,omitempty"`
	BestUnderOdds *int `json:"best_under_odds,omitempty"`

	// StdDev overrides the default spread used by the probability estimator.
	StdDev *float64 `json:"std_dev,omitempty"`

	// Filled by matchup enrichment; nil when the opponent has no rating.
	DefRating     *float64 `json:"def_rating,omitempty"`
	DefRatingRank *int     `json:"def_rating_rank,omitempty"`
}

// Edge is the projection minus the line. It is always derived, never stored.
func (r PlayerStatRecord) Edge() float64 {
	return r.AIProjection - r.BestLine
}

// HasMarket reports whether at least one side has a price.
func (r PlayerStatRecord) HasMarket() bool {
	return r.BestOverOdds != nil || r.BestUnderOdds != nil
}

// Key identifies a record within a table.
func (r PlayerStatRecord) Key() string {
	return string(r.Category) + ":" + r.Player
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 { return &v }

// DefensiveRating is one team's defensive rating and its dense rank (1 = toughest).
type DefensiveRating struct {
	Team   string  `json:"team"`
	Rating float64 `json:"def_rtg"`
	Rank   int     `json:"def_rtg_rank"`
}

// FormRow carries the rolling averages for one player in one category.
type FormRow struct {
	Player   string
	Opponent string
	L10      float64
	H2H      *float64
}

// EsportsLine is one CS2 prop line.
type EsportsLine struct {
	Player  string   `json:"player"`
	Stat    Category `json:"stat"` // Kills or Headshots
	Average float64  `json:"average"`
	Line    float64  `json:"line"`
}

// KillsSuffix marks a kills line in esports player names, e.g. "s1mple (K)".
const KillsSuffix = "(K)"

// ParseEsportsName splits a raw esports name into the player and the stat.
func ParseEsportsName(raw string) (string, Category) {
	name := strings.TrimSpace(raw)
	if strings.HasSuffix(name, KillsSuffix) {
		return strings.TrimSpace(strings.TrimSuffix(name, KillsSuffix)), Kills
	}
	return name, Headshots
}
