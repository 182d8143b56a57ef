// Package odds reduces raw sportsbook quotes to one best price per side and
// holds the American odds arithmetic shared by the scoring code.
package odds

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Quote labels.
const (
	LabelOver  = "Over"
	LabelUnder = "Under"
)

// QuoteRow is one bookmaker price for one side of a player's line.
type QuoteRow struct {
	Label  string
	Player string
	Price  decimal.NullDecimal
	Point  decimal.NullDecimal
}

// BestOdds is the normalized market for a single player.
type BestOdds struct {
	Player    string
	BestOver  decimal.NullDecimal
	BestUnder decimal.NullDecimal
	Point     decimal.NullDecimal
}

// Coerce parses s as a number. Anything non-numeric becomes null.
func Coerce(s string) decimal.NullDecimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// Normalize groups quotes by player and keeps the lowest Over price and the
// Under price closest to zero. A side without any priced quote stays null.
// The point is taken from the first quote of the player's group. Output is
// sorted by player.
func Normalize(rows []QuoteRow) []BestOdds {
	groups := make(map[string][]QuoteRow)
	for _, row := range rows {
		groups[row.Player] = append(groups[row.Player], row)
	}

	players := make([]string, 0, len(groups))
	for p := range groups {
		players = append(players, p)
	}
	sort.Strings(players)

	out := make([]BestOdds, 0, len(players))
	for _, p := range players {
		group := groups[p]
		best := BestOdds{Player: p, Point: group[0].Point}
		for _, q := range group {
			if !q.Price.Valid {
				continue
			}
			switch {
			case strings.EqualFold(strings.TrimSpace(q.Label), LabelOver):
				if !best.BestOver.Valid || q.Price.Decimal.LessThan(best.BestOver.Decimal) {
					best.BestOver = q.Price
				}
			case strings.EqualFold(strings.TrimSpace(q.Label), LabelUnder):
				if !best.BestUnder.Valid || q.Price.Decimal.Abs().LessThan(best.BestUnder.Decimal.Abs()) {
					best.BestUnder = q.Price
				}
			}
		}
		out = append(out, best)
	}
	return out
}

// OverAmerican returns the best Over price as integral American odds.
func (b BestOdds) OverAmerican() (*int, error) { return ToAmerican(b.BestOver) }

// UnderAmerican returns the best Under price as integral American odds.
func (b BestOdds) UnderAmerican() (*int, error) { return ToAmerican(b.BestUnder) }

// Line returns the point as a float and whether it is present.
func (b BestOdds) Line() (float64, bool) {
	if !b.Point.Valid {
		return 0, false
	}
	return b.Point.Decimal.InexactFloat64(), true
}

// ToAmerican converts a price to integral American odds. Null gives nil.
func ToAmerican(d decimal.NullDecimal) (*int, error) {
	if !d.Valid {
		return nil, nil
	}
	if !d.Decimal.IsInteger() {
		return nil, fmt.Errorf("%w: %s", ErrNonIntegralOdds, d.Decimal.String())
	}
	v := int(d.Decimal.IntPart())
	return &v, nil
}

// FormatOdds renders integral odds without a decimal point. Null renders empty.
func FormatOdds(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	if d.Decimal.IsInteger() {
		return strconv.FormatInt(d.Decimal.IntPart(), 10)
	}
	return d.Decimal.String()
}

// FormatPoint renders a line with exactly one decimal digit.
func FormatPoint(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(1)
}
