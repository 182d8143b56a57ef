package csvload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/propcast/internal/domain/matchup"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/odds"
)

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	return reader
}

// readAll reads the header and every data row. Blank lines are skipped by
// encoding/csv.
func readAll(table string, r io.Reader) (header, [][]string, error) {
	reader := newReader(r)
	cols, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return header{}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: reading header: %w", table, err)
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: reading rows: %w", table, err)
	}
	return newHeader(cols), rows, nil
}

// ReadQuotes parses a headerless label,description,price,point table. A
// leading header row naming those columns is tolerated and dropped.
func ReadQuotes(r io.Reader) ([]odds.QuoteRow, error) {
	rows, err := newReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("quotes: %w", err)
	}
	if len(rows) > 0 && strings.EqualFold(cell(rows[0], 0), "label") {
		rows = rows[1:]
	}
	out := make([]odds.QuoteRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, odds.QuoteRow{
			Label:  cell(row, 0),
			Player: cell(row, 1),
			Price:  odds.Coerce(cell(row, 2)),
			Point:  odds.Coerce(cell(row, 3)),
		})
	}
	return out, nil
}

// ReadForm parses Player,Opponent,L10,H2H. The per-stat column names used by
// the stats export (L10_PTS, H2H_REB, ...) are accepted as aliases.
func ReadForm(r io.Reader) ([]model.FormRow, error) {
	const table = "form"
	h, rows, err := readAll(table, r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 && len(h) == 0 {
		return nil, nil
	}
	player, err := h.require(table, "player")
	if err != nil {
		return nil, err
	}
	opponent, err := h.require(table, "opponent", "opp")
	if err != nil {
		return nil, err
	}
	l10, err := h.require(table, "l10", "l10_pts", "l10_reb", "l10_ast")
	if err != nil {
		return nil, err
	}
	h2h := h.lookup("h2h", "h2h_pts", "h2h_reb", "h2h_ast")

	out := make([]model.FormRow, 0, len(rows))
	for i, row := range rows {
		name := cell(row, player)
		if name == "" {
			continue
		}
		avg, err := requiredFloat(table, i+2, "L10", cell(row, l10))
		if err != nil {
			return nil, err
		}
		out = append(out, model.FormRow{
			Player:   name,
			Opponent: model.TeamAbbreviation(cell(row, opponent)),
			L10:      avg,
			H2H:      optionalFloat(cell(row, h2h)),
		})
	}
	return out, nil
}

// ReadProjections parses a precomputed Edge table. Its Edge column is
// ignored; edge is always derived from the projection and the line.
func ReadProjections(r io.Reader, cat model.Category) ([]model.PlayerStatRecord, error) {
	table := "projections " + string(cat)
	h, rows, err := readAll(table, r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 && len(h) == 0 {
		return nil, nil
	}

	cols := map[string]int{}
	for _, name := range []string{"player", "opponent", "best_line", "ai_projection", "l10", "best_over_odds", "best_under_odds"} {
		i, err := h.require(table, name)
		if err != nil {
			return nil, err
		}
		cols[name] = i
	}
	h2h := h.lookup("h2h")
	stdDev := h.lookup("std_dev", "stddev")

	out := make([]model.PlayerStatRecord, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		rec := model.PlayerStatRecord{
			Player:   cell(row, cols["player"]),
			Category: cat,
			Opponent: model.TeamAbbreviation(cell(row, cols["opponent"])),
			H2H:      optionalFloat(cell(row, h2h)),
			StdDev:   optionalFloat(cell(row, stdDev)),
		}
		if rec.Player == "" {
			continue
		}
		if rec.BestLine, err = requiredFloat(table, line, "Best_Line", cell(row, cols["best_line"])); err != nil {
			return nil, err
		}
		if rec.AIProjection, err = requiredFloat(table, line, "AI_Projection", cell(row, cols["ai_projection"])); err != nil {
			return nil, err
		}
		if rec.L10, err = requiredFloat(table, line, "L10", cell(row, cols["l10"])); err != nil {
			return nil, err
		}
		if rec.BestOverOdds, err = odds.ToAmerican(odds.Coerce(cell(row, cols["best_over_odds"]))); err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %w", ErrInvalidValue, table, line, err)
		}
		if rec.BestUnderOdds, err = odds.ToAmerican(odds.Coerce(cell(row, cols["best_under_odds"]))); err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %w", ErrInvalidValue, table, line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadDefense parses TEAM,DEF_RTG[,DEF_RTG_RANK]. Full team names become
// abbreviations. When any rank is missing, dense ranks are rebuilt from the
// ratings.
func ReadDefense(r io.Reader) ([]model.DefensiveRating, error) {
	const table = "defense"
	h, rows, err := readAll(table, r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 && len(h) == 0 {
		return nil, nil
	}
	team, err := h.require(table, "team")
	if err != nil {
		return nil, err
	}
	rating, err := h.require(table, "def_rtg", "drtg")
	if err != nil {
		return nil, err
	}
	rank := h.lookup("def_rtg_rank", "rank")

	var (
		raw    []matchup.TeamRating
		ranked []model.DefensiveRating
		reRank = rank < 0
	)
	for i, row := range rows {
		name := cell(row, team)
		if name == "" {
			continue
		}
		v, err := requiredFloat(table, i+2, "DEF_RTG", cell(row, rating))
		if err != nil {
			return nil, err
		}
		raw = append(raw, matchup.TeamRating{Team: name, Rating: v})
		if reRank {
			continue
		}
		n, err := strconv.Atoi(cell(row, rank))
		if err != nil || n <= 0 {
			reRank = true
			continue
		}
		ranked = append(ranked, model.DefensiveRating{Team: model.TeamAbbreviation(name), Rating: v, Rank: n})
	}
	if reRank {
		return matchup.Rank(raw), nil
	}
	return ranked, nil
}

// ReadEsports parses Player,Average,Line. A "(K)" suffix on the player marks
// a kills line; anything else is a headshots line.
func ReadEsports(r io.Reader) ([]model.EsportsLine, error) {
	const table = "esports"
	h, rows, err := readAll(table, r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 && len(h) == 0 {
		return nil, nil
	}
	player, err := h.require(table, "player")
	if err != nil {
		return nil, err
	}
	average, err := h.require(table, "average", "avg")
	if err != nil {
		return nil, err
	}
	lineCol, err := h.require(table, "line")
	if err != nil {
		return nil, err
	}

	out := make([]model.EsportsLine, 0, len(rows))
	for i, row := range rows {
		raw := cell(row, player)
		if raw == "" {
			continue
		}
		name, stat := model.ParseEsportsName(raw)
		avg, err := requiredFloat(table, i+2, "Average", cell(row, average))
		if err != nil {
			return nil, err
		}
		line, err := requiredFloat(table, i+2, "Line", cell(row, lineCol))
		if err != nil {
			return nil, err
		}
		out = append(out, model.EsportsLine{Player: name, Stat: stat, Average: avg, Line: line})
	}
	return out, nil
}
