package selection

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/okian/propcast/internal/domain/model"
)

// SlipDraw is the outcome of one slip assembly.
type SlipDraw struct {
	Slips    []model.Slip
	Attempts int
	PoolSize int
}

// Pool filters recommendations down to those a slip may draw from.
func Pool(recs []model.BetRecommendation, opt SlipOptions) []model.BetRecommendation {
	var pool []model.BetRecommendation
	for _, rec := range recs {
		if !rec.IsBet() || *rec.Odds < opt.OddsFloor {
			continue
		}
		if len(opt.Categories) > 0 && !slices.Contains(opt.Categories, rec.Record.Category) {
			continue
		}
		if len(opt.Directions) > 0 && !slices.Contains(opt.Directions, rec.Direction) {
			continue
		}
		if minLine, ok := opt.MinLines[rec.Record.Category]; ok && rec.Record.BestLine < minLine {
			continue
		}
		pool = append(pool, rec)
	}
	return pool
}

// Slips draws up to MaxSlips random slips of NumPlayers legs from the filtered
// pool. A draw is rejected when a player repeats or was used by an earlier slip,
// or, with DistinctOpponents, when an opponent repeats. The loop stops after
// MaxAttempts draws, so fewer slips may come back.
func Slips(recs []model.BetRecommendation, opt SlipOptions, rng *rand.Rand) (SlipDraw, error) {
	if opt.NumPlayers < MinSlipSize || opt.NumPlayers > MaxSlipSize {
		return SlipDraw{}, fmt.Errorf("%w: got %d", ErrInvalidSlipSize, opt.NumPlayers)
	}
	if rng == nil {
		return SlipDraw{}, ErrNilRand
	}

	pool := Pool(recs, opt)
	draw := SlipDraw{PoolSize: len(pool)}
	used := make(map[string]struct{})

	for draw.Attempts < opt.MaxAttempts && len(draw.Slips) < opt.MaxSlips {
		if len(pool) < opt.NumPlayers {
			break
		}
		draw.Attempts++

		picks := rng.Perm(len(pool))[:opt.NumPlayers]
		legs := make([]model.BetRecommendation, 0, opt.NumPlayers)
		for _, i := range picks {
			legs = append(legs, pool[i])
		}
		if !acceptable(legs, used, opt.DistinctOpponents) {
			continue
		}

		sampled := make(map[string]struct{}, len(legs))
		for _, leg := range legs {
			used[leg.Record.Player] = struct{}{}
			sampled[leg.Record.Player] = struct{}{}
		}
		pool = slices.DeleteFunc(pool, func(r model.BetRecommendation) bool {
			_, ok := sampled[r.Record.Player]
			return ok
		})
		draw.Slips = append(draw.Slips, model.Slip{Legs: legs})
	}
	return draw, nil
}

func acceptable(legs []model.BetRecommendation, used map[string]struct{}, distinctOpponents bool) bool {
	players := make(map[string]struct{}, len(legs))
	opponents := make(map[string]struct{}, len(legs))
	for _, leg := range legs {
		p := leg.Record.Player
		if _, ok := used[p]; ok {
			return false
		}
		if _, ok := players[p]; ok {
			return false
		}
		players[p] = struct{}{}

		if distinctOpponents {
			o := leg.Record.Opponent
			if _, ok := opponents[o]; ok {
				return false
			}
			opponents[o] = struct{}{}
		}
	}
	return true
}
