// Package scoring maps a classified record to a bounded confidence percentage
// and a parametric win probability.
package scoring

import (
	"fmt"
	"math"

	"github.com/okian/propcast/internal/domain/matchup"
	"github.com/okian/propcast/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultEdgeWeight = 0.4
	defaultL10Weight  = 0.4
	defaultOddsWeight = 0.2
	defaultMinScore   = 10
	defaultMaxScore   = 100
)

// DefaultDefensePenalty is the fraction removed from the score of a bet
// against a top defense.
const DefaultDefensePenalty = 0.2

// OddsBucket awards Score to odds at or above Floor.
type OddsBucket struct {
	Floor int
	Score float64
}

// DefaultOddsBuckets scores -115 and better as 1, down to -130 as 0.5.
func DefaultOddsBuckets() []OddsBucket {
	return []OddsBucket{{Floor: -115, Score: 1.0}, {Floor: -130, Score: 0.5}}
}

const defaultOddsFallback = 0.3

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights sets the edge, recent form and odds weights.
func WithWeights(edge, l10, odds float64) Option {
	return func(s *Scorer) {
		if edge >= 0 && l10 >= 0 && odds >= 0 && edge+l10+odds > 0 {
			s.edgeWeight = edge
			s.l10Weight = l10
			s.oddsWeight = odds
		}
	}
}

// WithOddsBuckets replaces the odds quality buckets. Buckets are checked in
// order; fallback applies when none match.
func WithOddsBuckets(buckets []OddsBucket, fallback float64) Option {
	return func(s *Scorer) {
		if len(buckets) == 0 {
			return
		}
		s.buckets = append([]OddsBucket(nil), buckets...)
		s.oddsFallback = fallback
	}
}

// WithDefensePenalty sets the cutoff rank and the fraction removed for tough
// defenses.
func WithDefensePenalty(rank int, penalty float64) Option {
	return func(s *Scorer) {
		if rank > 0 && penalty >= 0 && penalty < 1 {
			s.penaltyRank = rank
			s.penalty = penalty
		}
	}
}

// WithBounds sets the inclusive output range.
func WithBounds(lo, hi int) Option {
	return func(s *Scorer) {
		if lo >= 0 && hi > lo {
			s.minScore = lo
			s.maxScore = hi
		}
	}
}

// WithDefaultStdDev sets the spread used when a record carries none.
func WithDefaultStdDev(sd float64) Option {
	return func(s *Scorer) {
		if sd > 0 && !math.IsInf(sd, 0) {
			s.defaultStdDev = sd
		}
	}
}

// Scorer computes confidence and probability for records.
type Scorer struct {
	edgeWeight    float64
	l10Weight     float64
	oddsWeight    float64
	buckets       []OddsBucket
	oddsFallback  float64
	penaltyRank   int
	penalty       float64
	minScore      int
	maxScore      int
	defaultStdDev float64
}

// New creates a scorer with configuration options.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		edgeWeight:    defaultEdgeWeight,
		l10Weight:     defaultL10Weight,
		oddsWeight:    defaultOddsWeight,
		buckets:       DefaultOddsBuckets(),
		oddsFallback:  defaultOddsFallback,
		penaltyRank:   matchup.DefensePenaltyRank,
		penalty:       DefaultDefensePenalty,
		minScore:      defaultMinScore,
		maxScore:      defaultMaxScore,
		defaultStdDev: DefaultStdDev,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Confidence scores a record bet at the given odds.
func (s *Scorer) Confidence(r model.PlayerStatRecord, odds int) (int, error) {
	if r.BestLine <= 0 {
		return 0, fmt.Errorf("%w: line must be positive, got %v", ErrInvalidInput, r.BestLine)
	}

	edgeScore := clamp01(math.Abs(r.Edge()))
	l10Score := clamp01((r.L10 - r.BestLine) / r.BestLine)
	oddsScore := s.OddsScore(odds)

	// Products are materialized so the sum is not fused.
	combined := float64(s.edgeWeight*edgeScore) + float64(s.l10Weight*l10Score) + float64(s.oddsWeight*oddsScore)
	if r.DefRatingRank != nil && *r.DefRatingRank <= s.penaltyRank {
		combined = float64(combined * (1 - s.penalty))
	}

	scaled := float64(combined * 100)
	if math.IsNaN(scaled) {
		return 0, fmt.Errorf("%w: non-numeric score inputs", ErrInvalidInput)
	}
	score := int(math.Trunc(scaled))
	return min(max(score, s.minScore), s.maxScore), nil
}

// OddsScore returns the quality bucket score for odds.
func (s *Scorer) OddsScore(odds int) float64 {
	for _, b := range s.buckets {
		if odds >= b.Floor {
			return b.Score
		}
	}
	return s.oddsFallback
}

// Probability uses the scorer's default spread. See Probability.
func (s *Scorer) Probability(r model.PlayerStatRecord) (over, under int, err error) {
	sd := s.defaultStdDev
	if r.StdDev != nil {
		sd = *r.StdDev
	}
	return probability(r.AIProjection, r.BestLine, sd)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
