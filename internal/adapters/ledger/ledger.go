// Package ledger appends every published run, its recommended bets and its
// slips to Postgres so picks can be graded later.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/okian/propcast/internal/adapters/repository"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/pkg/metrics"
)

// ErrNilRun is returned when a run without an ID is recorded.
var ErrNilRun = errors.New("ledger: run has no id")

// Schema creates the ledger tables when they do not exist.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	created_at    TIMESTAMPTZ NOT NULL,
	reason        TEXT NOT NULL,
	seed          BIGINT NOT NULL,
	fingerprint   TEXT NOT NULL,
	board_size    INTEGER NOT NULL,
	lookup_misses INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS recommendations (
	run_id        TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	player        TEXT NOT NULL,
	category      TEXT NOT NULL,
	opponent      TEXT NOT NULL,
	direction     TEXT NOT NULL,
	odds          INTEGER NOT NULL,
	line          DOUBLE PRECISION NOT NULL,
	ai_projection DOUBLE PRECISION NOT NULL,
	edge          DOUBLE PRECISION NOT NULL,
	confidence    INTEGER NOT NULL,
	prob_over     INTEGER NOT NULL,
	prob_under    INTEGER NOT NULL,
	value_score   DOUBLE PRECISION NOT NULL,
	best_prop     BOOLEAN NOT NULL,
	PRIMARY KEY (run_id, category, player)
);
CREATE TABLE IF NOT EXISTS slips (
	id         BIGSERIAL PRIMARY KEY,
	run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	slip_index INTEGER NOT NULL,
	players    TEXT[] NOT NULL
);
CREATE TABLE IF NOT EXISTS slip_legs (
	slip_id   BIGINT NOT NULL REFERENCES slips(id) ON DELETE CASCADE,
	leg_index INTEGER NOT NULL,
	player    TEXT NOT NULL,
	category  TEXT NOT NULL,
	direction TEXT NOT NULL,
	odds      INTEGER NOT NULL,
	line      DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (slip_id, leg_index)
);
`

const (
	insertRun = `
		INSERT INTO runs (id, created_at, reason, seed, fingerprint, board_size, lookup_misses)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	insertRecommendation = `
		INSERT INTO recommendations (
			run_id, player, category, opponent, direction, odds, line, ai_projection,
			edge, confidence, prob_over, prob_under, value_score, best_prop
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	insertSlip = `
		INSERT INTO slips (run_id, slip_index, players)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	insertLeg = `
		INSERT INTO slip_legs (slip_id, leg_index, player, category, direction, odds, line)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
)

// Open connects to Postgres with the lib/pq driver and pings it.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping ledger: %w", err)
	}
	return db, nil
}

// Postgres writes runs to the ledger tables.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the ledger tables.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create ledger schema: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (p *Postgres) Close() error { return p.db.Close() }

// Record writes the run, its bets and its slips in one transaction.
func (p *Postgres) Record(ctx context.Context, run repository.Run) (err error) {
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
			metrics.RecordErrorByComponent("ledger", "write")
		}
		metrics.RecordLedgerWrite(result, float64(time.Since(start).Microseconds())/1000)
	}()

	if run.ID == "" {
		return ErrNilRun
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := writeRun(ctx, sqlTx{tx: tx}, run); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// statements is the part of a transaction the writer needs.
type statements interface {
	exec(ctx context.Context, query string, args ...any) error
	insertID(ctx context.Context, query string, args ...any) (int64, error)
}

type sqlTx struct{ tx *sql.Tx }

func (t sqlTx) exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}

func (t sqlTx) insertID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx, query, args...).Scan(&id)
	return id, err
}

func writeRun(ctx context.Context, tx statements, run repository.Run) error {
	res := run.Result
	if err := tx.exec(ctx, insertRun,
		run.ID, run.CreatedAt, run.Reason, run.Seed, run.Fingerprint, len(res.Board), res.LookupMisses,
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	best := make(map[string]struct{}, len(res.BestProps))
	for _, b := range res.BestProps {
		best[b.Record.Key()] = struct{}{}
	}
	for _, rec := range res.Board {
		if !rec.IsBet() {
			continue
		}
		_, isBest := best[rec.Record.Key()]
		if err := tx.exec(ctx, insertRecommendation, recommendationArgs(run.ID, rec, isBest)...); err != nil {
			return fmt.Errorf("failed to insert recommendation %s: %w", rec.Record.Key(), err)
		}
	}

	for i, slip := range res.Slips {
		slipID, err := tx.insertID(ctx, insertSlip, run.ID, i, pq.Array(slip.Players()))
		if err != nil {
			return fmt.Errorf("failed to insert slip %d: %w", i, err)
		}
		for j, leg := range slip.Legs {
			if err := tx.exec(ctx, insertLeg, legArgs(slipID, j, leg)...); err != nil {
				return fmt.Errorf("failed to insert slip leg %d/%d: %w", i, j, err)
			}
		}
	}
	return nil
}

func recommendationArgs(runID string, rec model.BetRecommendation, bestProp bool) []any {
	r := rec.Record
	return []any{
		runID, r.Player, string(r.Category), r.Opponent, string(rec.Direction), *rec.Odds,
		r.BestLine, r.AIProjection, r.Edge(), rec.Confidence, rec.ProbOver, rec.ProbUnder,
		rec.ValueScore, bestProp,
	}
}

func legArgs(slipID int64, index int, leg model.BetRecommendation) []any {
	odds := 0
	if leg.Odds != nil {
		odds = *leg.Odds
	}
	return []any{
		slipID, index, leg.Record.Player, string(leg.Record.Category), string(leg.Direction),
		odds, leg.Record.BestLine,
	}
}
