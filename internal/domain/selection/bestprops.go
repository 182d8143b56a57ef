// Package selection turns scored recommendations into best props, random
// slips and hot & cold picks.
package selection

import (
	"sort"

	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/odds"
)

// ValueScore ranks a bet by edge plus its payout scaled down by 75.
func ValueScore(rec model.BetRecommendation) (float64, bool) {
	if !rec.IsBet() {
		return 0, false
	}
	payout, err := odds.PayoutPer100(*rec.Odds)
	if err != nil {
		return 0, false
	}
	return rec.Record.Edge() + payout/valueDivisor, true
}

// ExtremeOddsPlayers returns the players holding the top longest over prices
// and the top shortest under prices across the whole table.
func ExtremeOddsPlayers(records []model.PlayerStatRecord, top int) map[string]struct{} {
	out := make(map[string]struct{})
	if top <= 0 {
		return out
	}

	var overs, unders []model.PlayerStatRecord
	for _, r := range records {
		if r.BestOverOdds != nil {
			overs = append(overs, r)
		}
		if r.BestUnderOdds != nil {
			unders = append(unders, r)
		}
	}
	sort.SliceStable(overs, func(i, j int) bool { return *overs[i].BestOverOdds > *overs[j].BestOverOdds })
	sort.SliceStable(unders, func(i, j int) bool { return *unders[i].BestUnderOdds < *unders[j].BestUnderOdds })

	for i := 0; i < top && i < len(overs); i++ {
		out[overs[i].Player] = struct{}{}
	}
	for i := 0; i < top && i < len(unders); i++ {
		out[unders[i].Player] = struct{}{}
	}
	return out
}

// BestProps picks at most one recommendation per category. A category with no
// candidate passing every filter yields nothing. Picks never share a player or
// an opponent.
func BestProps(recs []model.BetRecommendation, opt BestPropsOptions) []model.BetRecommendation {
	records := make([]model.PlayerStatRecord, len(recs))
	for i, r := range recs {
		records[i] = r.Record
	}
	excluded := ExtremeOddsPlayers(records, opt.ExcludeTop)

	usedPlayers := make(map[string]struct{})
	usedOpponents := make(map[string]struct{})
	var picks []model.BetRecommendation

	for _, cat := range opt.Categories {
		var (
			best      model.BetRecommendation
			bestValue float64
			found     bool
		)
		for _, rec := range recs {
			if rec.Record.Category != cat || !eligible(rec, opt) {
				continue
			}
			if _, ok := excluded[rec.Record.Player]; ok {
				continue
			}
			if _, ok := usedPlayers[rec.Record.Player]; ok {
				continue
			}
			if _, ok := usedOpponents[rec.Record.Opponent]; ok {
				continue
			}
			v, ok := ValueScore(rec)
			if !ok {
				continue
			}
			if !found || v > bestValue {
				best, bestValue, found = rec, v, true
			}
		}
		if !found {
			continue
		}
		best.ValueScore = bestValue
		picks = append(picks, best)
		usedPlayers[best.Record.Player] = struct{}{}
		usedOpponents[best.Record.Opponent] = struct{}{}
	}
	return picks
}

func eligible(rec model.BetRecommendation, opt BestPropsOptions) bool {
	if !rec.IsBet() || *rec.Odds < opt.OddsFloor {
		return false
	}
	if minLine, ok := opt.MinLines[rec.Record.Category]; ok && rec.Record.BestLine < minLine {
		return false
	}
	if rank := rec.Record.DefRatingRank; rank != nil && *rank <= opt.FavorableRank {
		return false
	}
	return true
}
