// Package search looks up players across the scored board and the esports lines.
package search

import (
	"errors"
	"strings"

	"github.com/okian/propcast/internal/domain/model"
)

// ErrEmptyQuery is returned for blank search terms.
var ErrEmptyQuery = errors.New("empty search query")

// Players returns every category row for the player, matched by exact name in
// any casing.
func Players(recs []model.BetRecommendation, name string) ([]model.BetRecommendation, error) {
	q := strings.TrimSpace(name)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	var out []model.BetRecommendation
	for _, rec := range recs {
		if strings.EqualFold(rec.Record.Player, q) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// EsportsResult is the first kills and headshots line matching a query.
type EsportsResult struct {
	Query     string             `json:"query"`
	Kills     *model.EsportsLine `json:"kills,omitempty"`
	Headshots *model.EsportsLine `json:"headshots,omitempty"`
}

// Found reports whether any line matched.
func (r EsportsResult) Found() bool {
	return r.Kills != nil || r.Headshots != nil
}

// Esports matches players whose name contains the query in any casing.
func Esports(lines []model.EsportsLine, name string) (EsportsResult, error) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return EsportsResult{}, ErrEmptyQuery
	}
	res := EsportsResult{Query: strings.TrimSpace(name)}
	for _, l := range lines {
		if !strings.Contains(strings.ToLower(l.Player), q) {
			continue
		}
		line := l
		switch {
		case l.Stat == model.Kills && res.Kills == nil:
			res.Kills = &line
		case l.Stat == model.Headshots && res.Headshots == nil:
			res.Headshots = &line
		}
	}
	return res, nil
}
