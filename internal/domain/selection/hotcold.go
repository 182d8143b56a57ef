package selection

import (
	"math"

	"github.com/okian/propcast/internal/domain/model"
)

// HotColdPick is a player whose recent form sits on one side of the line.
type HotColdPick struct {
	Player    string          `json:"player"`
	Opponent  string          `json:"opponent"`
	Direction model.Direction `json:"direction"`
	Line      float64         `json:"line"`
	L10       float64         `json:"l10"`
	Odds      int             `json:"odds"`
	// Diff is L10 minus the line, rounded to one decimal.
	Diff float64 `json:"diff"`
}

// HotCold holds at most one hot and one cold pick for a category.
type HotCold struct {
	Category model.Category `json:"category"`
	Hot      *HotColdPick   `json:"hot,omitempty"`
	Cold     *HotColdPick   `json:"cold,omitempty"`
}

// HotAndCold picks, per category, the hot player (L10 above the line) with the
// longest over price and the cold player (L10 below) with the longest under.
func HotAndCold(records []model.PlayerStatRecord, categories []model.Category, minLines map[model.Category]float64) []HotCold {
	out := make([]HotCold, 0, len(categories))
	for _, cat := range categories {
		hc := HotCold{Category: cat}
		for _, r := range records {
			if r.Category != cat {
				continue
			}
			if minLine, ok := minLines[cat]; ok && r.BestLine < minLine {
				continue
			}
			switch {
			case r.L10 > r.BestLine && r.BestOverOdds != nil:
				if hc.Hot == nil || *r.BestOverOdds > hc.Hot.Odds {
					hc.Hot = newPick(r, model.Over, *r.BestOverOdds)
				}
			case r.L10 < r.BestLine && r.BestUnderOdds != nil:
				if hc.Cold == nil || *r.BestUnderOdds > hc.Cold.Odds {
					hc.Cold = newPick(r, model.Under, *r.BestUnderOdds)
				}
			}
		}
		out = append(out, hc)
	}
	return out
}

func newPick(r model.PlayerStatRecord, dir model.Direction, price int) *HotColdPick {
	return &HotColdPick{
		Player:    r.Player,
		Opponent:  r.Opponent,
		Direction: dir,
		Line:      r.BestLine,
		L10:       r.L10,
		Odds:      price,
		Diff:      math.Round((r.L10-r.BestLine)*10) / 10,
	}
}
