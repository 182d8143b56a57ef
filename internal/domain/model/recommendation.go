package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDirection is returned when a direction string cannot be parsed.
var ErrUnknownDirection = errors.New("unknown bet direction")

// Direction is the side recommended for a record.
type Direction string

// Fade is the only "no bet" sentinel; it always carries nil odds.
const (
	Over  Direction = "Over"
	Under Direction = "Under"
	Fade  Direction = "Fade"
)

// ParseDirection accepts any casing.
func ParseDirection(s string) (Direction, error) {
	for _, d := range []Direction{Over, Under, Fade} {
		if strings.EqualFold(string(d), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// BetRecommendation is a classified and scored record. It is built fresh on
// every pipeline run and never persisted by the core.
type BetRecommendation struct {
	Record      PlayerStatRecord `json:"record"`
	Direction   Direction        `json:"direction"`
	Odds        *int             `json:"odds,omitempty"`
	Confidence  int              `json:"confidence"`
	ProbOver    int              `json:"prob_over"`
	ProbUnder   int              `json:"prob_under"`
	MatchupNote string           `json:"matchup_note"`
	ValueScore  float64          `json:"value_score"`
}

// IsBet reports whether the recommendation carries a real wager.
func (b BetRecommendation) IsBet() bool {
	return b.Direction != Fade && b.Odds != nil
}

// Slip is an ordered set of legs with no repeated player.
type Slip struct {
	Legs []BetRecommendation `json:"legs"`
}

// Players returns the leg players in order.
func (s Slip) Players() []string {
	out := make([]string, len(s.Legs))
	for i, leg := range s.Legs {
		out[i] = leg.Record.Player
	}
	return out
}
