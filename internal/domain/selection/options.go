package selection

import (
	"github.com/okian/propcast/internal/domain/matchup"
	"github.com/okian/propcast/internal/domain/model"
)

// Selection defaults.
const (
	DefaultPropsOddsFloor = -150
	DefaultSlipOddsFloor  = -150
	DefaultExcludeTop     = 3
	DefaultMaxSlips       = 3
	DefaultMaxAttempts    = 30
	DefaultSlipSize       = 3
	MinSlipSize           = 1
	MaxSlipSize           = 4

	// valueDivisor scales payout-per-100 onto the edge's range.
	valueDivisor = 75.0
)

// DefaultMinLines returns the category line minimums used by best props and
// hot & cold.
func DefaultMinLines() map[model.Category]float64 {
	return map[model.Category]float64{
		model.Points:   18.5,
		model.Rebounds: 4.0,
		model.Assists:  4.0,
	}
}

// BestPropsOptions configures best props selection.
type BestPropsOptions struct {
	// Categories are picked in order; earlier picks constrain later ones.
	Categories []model.Category
	MinLines   map[model.Category]float64
	OddsFloor  int
	// FavorableRank is the defense rank a pick's opponent must exceed.
	FavorableRank int
	// ExcludeTop sizes the extreme odds exclusion set on each side.
	ExcludeTop int
}

// DefaultBestPropsOptions returns the standard Points, Rebounds, Assists run.
func DefaultBestPropsOptions() BestPropsOptions {
	return BestPropsOptions{
		Categories:    append([]model.Category(nil), model.BasketballCategories...),
		MinLines:      DefaultMinLines(),
		OddsFloor:     DefaultPropsOddsFloor,
		FavorableRank: matchup.DefensePenaltyRank,
		ExcludeTop:    DefaultExcludeTop,
	}
}

// SlipOptions configures slip assembly. Empty filters accept everything.
type SlipOptions struct {
	NumPlayers        int
	MaxSlips          int
	MaxAttempts       int
	Categories        []model.Category
	Directions        []model.Direction
	MinLines          map[model.Category]float64
	OddsFloor         int
	DistinctOpponents bool
}

// DefaultSlipOptions returns three-leg slips across every category.
func DefaultSlipOptions() SlipOptions {
	return SlipOptions{
		NumPlayers:        DefaultSlipSize,
		MaxSlips:          DefaultMaxSlips,
		MaxAttempts:       DefaultMaxAttempts,
		OddsFloor:         DefaultSlipOddsFloor,
		DistinctOpponents: true,
	}
}

// PresetTwoMans names TwoMansPreset in queries.
const PresetTwoMans = "two-mans"

// TwoMansPreset is the two-leg Rebounds/Assists slip with 4.0 minimum lines.
func TwoMansPreset() SlipOptions {
	o := DefaultSlipOptions()
	o.NumPlayers = 2
	o.Categories = []model.Category{model.Rebounds, model.Assists}
	o.MinLines = map[model.Category]float64{model.Rebounds: 4.0, model.Assists: 4.0}
	return o
}
