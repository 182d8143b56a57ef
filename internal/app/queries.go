package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/okian/propcast/internal/adapters/repository"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/search"
	"github.com/okian/propcast/internal/domain/selection"
)

// PresetTwoMans selects selection.TwoMansPreset.
const PresetTwoMans = selection.PresetTwoMans

// SlipQuery re-draws slips over the latest board. Empty filters fall back to
// the configured slip options.
type SlipQuery struct {
	// Players restricts the pool to these names, any casing.
	Players    []string
	Categories []model.Category
	Directions []model.Direction
	// Seed defaults to the run's seed so repeated queries agree.
	Seed   *int64
	Preset string
	Size   int
}

// SlipResult is the outcome of a slip query.
type SlipResult struct {
	RunID    string       `json:"run_id"`
	Seed     int64        `json:"seed"`
	Slips    []model.Slip `json:"slips"`
	Attempts int          `json:"attempts"`
	PoolSize int          `json:"pool_size"`
}

// Latest returns the published run.
func (s *Service) Latest() (repository.Run, error) {
	run, ok := s.latestRun()
	if !ok {
		return repository.Run{}, ErrNoRun
	}
	return run, nil
}

// RunByID returns a stored run.
func (s *Service) RunByID(ctx context.Context, id string) (repository.Run, error) {
	run, err := s.store.Get(ctx, id)
	if err != nil {
		return repository.Run{}, fmt.Errorf("run %q: %w", id, err)
	}
	return run, nil
}

// History lists stored runs, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]repository.Summary, error) {
	if limit == 0 {
		limit = defaultHistoryListSize
	}
	out, err := s.store.List(ctx, limit)
	if errors.Is(err, repository.ErrInvalidLimit) {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return out, err
}

// BestProps returns the latest best props.
func (s *Service) BestProps() ([]model.BetRecommendation, error) {
	run, err := s.Latest()
	if err != nil {
		return nil, err
	}
	return nonNil(run.Result.BestProps), nil
}

// Board returns the latest scored board, optionally for one category.
func (s *Service) Board(category string) ([]model.BetRecommendation, error) {
	run, err := s.Latest()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(category) == "" {
		return nonNil(run.Result.Board), nil
	}
	cat, err := model.ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	out := []model.BetRecommendation{}
	for _, rec := range run.Result.Board {
		if rec.Record.Category == cat {
			out = append(out, rec)
		}
	}
	return out, nil
}

// HotCold returns the latest hot and cold picks.
func (s *Service) HotCold() ([]selection.HotCold, error) {
	run, err := s.Latest()
	if err != nil {
		return nil, err
	}
	if run.Result.HotCold == nil {
		return []selection.HotCold{}, nil
	}
	return run.Result.HotCold, nil
}

// Slips draws slips from the latest board for q.
func (s *Service) Slips(q SlipQuery) (SlipResult, error) {
	run, err := s.Latest()
	if err != nil {
		return SlipResult{}, err
	}

	opt := s.options.Slips
	switch strings.ToLower(strings.TrimSpace(q.Preset)) {
	case "":
	case PresetTwoMans:
		opt = selection.TwoMansPreset()
	default:
		return SlipResult{}, fmt.Errorf("%w: unknown preset %q", ErrValidation, q.Preset)
	}
	if len(q.Categories) > 0 {
		opt.Categories = q.Categories
	}
	if len(q.Directions) > 0 {
		opt.Directions = q.Directions
	}
	if q.Size != 0 {
		opt.NumPlayers = q.Size
	}

	seed := run.Seed
	if q.Seed != nil {
		seed = *q.Seed
	}

	draw, err := selection.Slips(onlyPlayers(run.Result.Board, q.Players), opt, rand.New(rand.NewSource(seed))) //nolint:gosec // slip sampling only
	if err != nil {
		return SlipResult{}, asValidation(err)
	}
	slips := draw.Slips
	if slips == nil {
		slips = []model.Slip{}
	}
	return SlipResult{
		RunID:    run.ID,
		Seed:     seed,
		Slips:    slips,
		Attempts: draw.Attempts,
		PoolSize: draw.PoolSize,
	}, nil
}

// SearchPlayer returns every board row for the player.
func (s *Service) SearchPlayer(name string) ([]model.BetRecommendation, error) {
	run, err := s.Latest()
	if err != nil {
		return nil, err
	}
	out, err := search.Players(run.Result.Board, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nonNil(out), nil
}

// SearchEsports returns the kills and headshots lines matching name.
func (s *Service) SearchEsports(name string) (search.EsportsResult, error) {
	run, err := s.Latest()
	if err != nil {
		return search.EsportsResult{}, err
	}
	out, err := search.Esports(run.Esports, name)
	if err != nil {
		return search.EsportsResult{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return out, nil
}

func onlyPlayers(board []model.BetRecommendation, players []string) []model.BetRecommendation {
	if len(players) == 0 {
		return board
	}
	var out []model.BetRecommendation
	for _, rec := range board {
		for _, p := range players {
			if strings.EqualFold(strings.TrimSpace(p), rec.Record.Player) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

func nonNil(recs []model.BetRecommendation) []model.BetRecommendation {
	if recs == nil {
		return []model.BetRecommendation{}
	}
	return recs
}
