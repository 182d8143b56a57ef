package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/okian/propcast/internal/adapters/csvload"
	"github.com/okian/propcast/internal/adapters/repository"
	"github.com/okian/propcast/internal/domain/dedupe"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/odds"
	"github.com/okian/propcast/internal/domain/pipeline"
	"github.com/okian/propcast/internal/domain/projection"
	"github.com/okian/propcast/internal/domain/scoring"
	"github.com/okian/propcast/internal/domain/selection"
	"github.com/okian/propcast/pkg/logger"
	"github.com/okian/propcast/pkg/metrics"
)

// validationErrors are input faults the caller can fix by editing the tables
// or the query.
var validationErrors = []error{
	projection.ErrInvalidInput,
	scoring.ErrInvalidInput,
	odds.ErrNonIntegralOdds,
	odds.ErrInvalidOdds,
	csvload.ErrMissingColumn,
	csvload.ErrMissingFile,
	csvload.ErrInvalidValue,
	csvload.ErrNoTables,
	selection.ErrInvalidSlipSize,
	model.ErrUnknownCategory,
	model.ErrUnknownDirection,
}

func asValidation(err error) error {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}
	return err
}

// Refresh publishes a run for req. It satisfies the worker's Refresher.
func (s *Service) Refresh(ctx context.Context, req model.RefreshRequest) error {
	_, _, err := s.Publish(ctx, req)
	return err
}

// RequestRefresh queues req for the background worker.
func (s *Service) RequestRefresh(ctx context.Context, req model.RefreshRequest) (model.RefreshRequest, error) {
	s.mu.RLock()
	q, started := s.queue, s.started
	s.mu.RUnlock()
	if !started {
		return req, ErrNotStarted
	}
	req = s.stamp(req)
	if err := q.Enqueue(ctx, req); err != nil {
		return req, err
	}
	s.logger.Debug(ctx, "refresh queued",
		logger.String("request_id", req.ID),
		logger.String("reason", req.Reason),
	)
	return req, nil
}

func (s *Service) stamp(req model.RefreshRequest) model.RefreshRequest {
	if req.ID == "" {
		req.ID = s.newID()
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = s.now()
	}
	if req.Reason == "" {
		req.Reason = model.ReasonAPI
	}
	return req
}

// Publish loads the tables, runs the pipeline and makes the result the latest
// run. When the tables and seed match an already published run it returns
// that run with duplicate set, unless req.Force is set. Refreshes are
// serialized.
func (s *Service) Publish(ctx context.Context, req model.RefreshRequest) (repository.Run, bool, error) {
	if s.source == nil {
		return repository.Run{}, false, ErrNoSource
	}
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	req = s.stamp(req)
	start := s.now()
	log := s.logger

	fp, err := s.source.Fingerprint()
	if err != nil {
		metrics.RecordRunFailure("fingerprint")
		return repository.Run{}, false, asValidation(fmt.Errorf("fingerprint: %w", err))
	}

	seed, pinned := s.pickSeed(req)
	key := dedupe.Key(fp, 0)
	if pinned {
		key = dedupe.Key(fp, seed)
	}
	if s.deduper.SeenAndRecord(ctx, key) {
		if latest, ok := s.latestRun(); ok && !req.Force && latest.Fingerprint == fp {
			metrics.RecordRefreshDuplicate()
			log.Debug(ctx, "tables unchanged, refresh skipped",
				logger.String("request_id", req.ID),
				logger.String("fingerprint", fp),
			)
			return latest, true, nil
		}
	}

	run, stage, err := s.execute(ctx, req, fp, seed)
	if err != nil {
		s.deduper.Unrecord(ctx, key)
		metrics.RecordRunFailure(stage)
		log.Error(ctx, "refresh failed",
			logger.String("request_id", req.ID),
			logger.String("stage", stage),
			logger.Error(err),
		)
		return repository.Run{}, false, asValidation(err)
	}

	if err := s.store.Save(ctx, run); err != nil {
		s.deduper.Unrecord(ctx, key)
		metrics.RecordRunFailure("store")
		return repository.Run{}, false, fmt.Errorf("save run: %w", err)
	}
	if s.ledger != nil {
		if err := s.ledger.Record(ctx, run); err != nil {
			log.Warn(ctx, "ledger write failed", logger.String("run_id", run.ID), logger.Error(err))
		}
	}

	s.mu.Lock()
	s.latest = &run
	s.mu.Unlock()

	res := run.Result
	metrics.RecordRun(float64(s.now().Sub(start).Milliseconds()), res.LookupMisses,
		res.SlipAttempts, len(res.Board), len(res.BestProps), len(res.Slips), res.PoolSize)
	for cat, n := range countBets(res.Board) {
		metrics.UpdateRecommendations(string(cat), n)
	}
	metrics.UpdateLastRunTime(run.CreatedAt.Unix())

	log.Info(ctx, "run published",
		logger.String("run_id", run.ID),
		logger.String("reason", run.Reason),
		logger.Int64("seed", run.Seed),
		logger.Int("board", len(res.Board)),
		logger.Int("bestProps", len(res.BestProps)),
		logger.Int("slips", len(res.Slips)),
		logger.Duration("took", s.now().Sub(start)),
	)
	if res.LookupMisses > 0 {
		log.Debug(ctx, "lookup misses", logger.Int("count", res.LookupMisses))
	}
	return run, false, nil
}

// execute returns the failing stage alongside any error.
func (s *Service) execute(ctx context.Context, req model.RefreshRequest, fp string, seed int64) (repository.Run, string, error) {
	tables, err := s.source.Load(ctx)
	if err != nil {
		return repository.Run{}, "load", fmt.Errorf("load tables: %w", err)
	}
	snap, err := pipeline.Build(tables, s.weights)
	if err != nil {
		return repository.Run{}, "build", fmt.Errorf("build snapshot: %w", err)
	}
	res, err := pipeline.Run(snap, s.options, rand.New(rand.NewSource(seed))) //nolint:gosec // slip sampling only
	if err != nil {
		return repository.Run{}, "run", fmt.Errorf("run pipeline: %w", err)
	}
	metrics.RecordSlipAttempts(res.SlipAttempts)

	return repository.Run{
		ID:          req.ID,
		CreatedAt:   s.now().UTC(),
		Reason:      req.Reason,
		Seed:        seed,
		Fingerprint: fp,
		Result:      res,
		Esports:     snap.Esports,
	}, "", nil
}

// pickSeed prefers the request seed, then the configured one. Pinned reports
// whether the seed was chosen by the caller or the config.
func (s *Service) pickSeed(req model.RefreshRequest) (int64, bool) {
	switch {
	case req.Seed != nil:
		return *req.Seed, true
	case s.seed != 0:
		return s.seed, true
	default:
		return time.Now().UnixNano(), false
	}
}

func (s *Service) latestRun() (repository.Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return repository.Run{}, false
	}
	return *s.latest, true
}

func countBets(board []model.BetRecommendation) map[model.Category]int {
	out := make(map[model.Category]int)
	for _, rec := range board {
		if _, ok := out[rec.Record.Category]; !ok {
			out[rec.Record.Category] = 0
		}
		if rec.IsBet() {
			out[rec.Record.Category]++
		}
	}
	return out
}
