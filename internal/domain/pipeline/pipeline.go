package pipeline

import (
	"fmt"
	"math/rand"

	"github.com/okian/propcast/internal/domain/classify"
	"github.com/okian/propcast/internal/domain/matchup"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/projection"
	"github.com/okian/propcast/internal/domain/scoring"
	"github.com/okian/propcast/internal/domain/selection"
)

// Options wires the policies of a run.
type Options struct {
	Classifier classify.Classifier
	Scorer     *scoring.Scorer
	Notes      matchup.Thresholds
	BestProps  selection.BestPropsOptions
	Slips      selection.SlipOptions
	// HotColdCategories are reported in order with BestProps.MinLines.
	HotColdCategories []model.Category
}

// DefaultOptions returns the strict classifier and the default selections.
func DefaultOptions() Options {
	return Options{
		Classifier:        classify.NewStrict(),
		Scorer:            scoring.New(),
		Notes:             matchup.DefaultThresholds(),
		BestProps:         selection.DefaultBestPropsOptions(),
		Slips:             selection.DefaultSlipOptions(),
		HotColdCategories: append([]model.Category(nil), model.BasketballCategories...),
	}
}

// Result is everything one run produces.
type Result struct {
	Board        []model.BetRecommendation `json:"board"`
	BestProps    []model.BetRecommendation `json:"best_props"`
	Slips        []model.Slip              `json:"slips"`
	HotCold      []selection.HotCold       `json:"hot_cold"`
	SlipAttempts int                       `json:"slip_attempts"`
	PoolSize     int                       `json:"pool_size"`
	// LookupMisses counts merge skips plus opponents without a rating.
	LookupMisses int `json:"lookup_misses"`
}

// Bets returns the board rows that carry a wager.
func (r Result) Bets() []model.BetRecommendation {
	var out []model.BetRecommendation
	for _, rec := range r.Board {
		if rec.IsBet() {
			out = append(out, rec)
		}
	}
	return out
}

// Run enriches, classifies and scores the snapshot, then selects best props,
// slips and hot & cold picks. It never modifies the snapshot; the same
// snapshot, options and seed give the same result.
func Run(snap Snapshot, opt Options, rng *rand.Rand) (Result, error) {
	if err := projection.Validate(snap.Records); err != nil {
		return Result{}, err
	}
	if opt.Classifier == nil {
		opt.Classifier = classify.NewStrict()
	}
	if opt.Scorer == nil {
		opt.Scorer = scoring.New()
	}

	enriched, misses := matchup.Enrich(snap.Records, snap.Ratings)
	board, err := Score(enriched, opt)
	if err != nil {
		return Result{}, err
	}

	draw, err := selection.Slips(board, opt.Slips, rng)
	if err != nil {
		return Result{}, fmt.Errorf("slips: %w", err)
	}

	return Result{
		Board:        board,
		BestProps:    selection.BestProps(board, opt.BestProps),
		Slips:        draw.Slips,
		HotCold:      selection.HotAndCold(enriched, opt.HotColdCategories, opt.BestProps.MinLines),
		SlipAttempts: draw.Attempts,
		PoolSize:     draw.PoolSize,
		LookupMisses: misses + len(snap.Skipped),
	}, nil
}

// Score classifies every record and scores the ones that carry a bet. Fades
// keep a zero confidence but still get probabilities and a matchup note.
func Score(records []model.PlayerStatRecord, opt Options) ([]model.BetRecommendation, error) {
	board := make([]model.BetRecommendation, 0, len(records))
	for _, r := range records {
		dir, price := opt.Classifier.Classify(r)
		rec := model.BetRecommendation{
			Record:      r,
			Direction:   dir,
			Odds:        price,
			MatchupNote: opt.Notes.Describe(r.DefRatingRank),
		}

		over, under, err := opt.Scorer.Probability(r)
		if err != nil {
			return nil, fmt.Errorf("probability %s: %w", r.Key(), err)
		}
		rec.ProbOver, rec.ProbUnder = over, under

		if rec.IsBet() {
			conf, err := opt.Scorer.Confidence(r, *price)
			if err != nil {
				return nil, fmt.Errorf("confidence %s: %w", r.Key(), err)
			}
			rec.Confidence = conf
			if v, ok := selection.ValueScore(rec); ok {
				rec.ValueScore = v
			}
		}
		board = append(board, rec)
	}
	return board, nil
}
