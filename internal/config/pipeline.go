package config

import (
	"github.com/okian/propcast/internal/domain/classify"
	"github.com/okian/propcast/internal/domain/matchup"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/pipeline"
	"github.com/okian/propcast/internal/domain/projection"
	"github.com/okian/propcast/internal/domain/scoring"
	"github.com/okian/propcast/internal/domain/selection"
)

// Weights returns the projection blend.
func (c *Config) Weights() projection.Weights {
	return projection.Weights{L10: c.L10Weight, H2H: c.H2HWeight}
}

// PipelineOptions maps the thresholds onto the pipeline policies.
func (c *Config) PipelineOptions() (pipeline.Options, error) {
	classifier, err := classify.ForPolicy(c.Classifier, c.BettableOdds)
	if err != nil {
		return pipeline.Options{}, err
	}

	best := selection.DefaultBestPropsOptions()
	best.OddsFloor = c.PropsOddsFloor
	best.FavorableRank = c.FavorableRank

	slips := selection.DefaultSlipOptions()
	slips.NumPlayers = c.SlipSize
	slips.MaxSlips = c.MaxSlips
	slips.MaxAttempts = c.MaxSlipAttempts
	slips.OddsFloor = c.SlipOddsFloor
	slips.DistinctOpponents = c.DistinctOpponents

	return pipeline.Options{
		Classifier: classifier,
		Scorer: scoring.New(
			scoring.WithDefensePenalty(c.DefensePenaltyRank, scoring.DefaultDefensePenalty),
			scoring.WithDefaultStdDev(c.DefaultStdDev),
		),
		Notes:             matchup.Thresholds{Tough: c.ToughMatchupRank, Great: c.GreatMatchupRank},
		BestProps:         best,
		Slips:             slips,
		HotColdCategories: append([]model.Category(nil), model.BasketballCategories...),
	}, nil
}
