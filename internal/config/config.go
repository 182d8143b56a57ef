// Package config defines service configuration and its layered loading.
//
// Conventions:
//   - New returns a Config filled with defaults.
//   - Load layers an optional YAML file and PROPCAST_ env vars on top.
//   - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/propcast/internal/domain/classify"
	"github.com/okian/propcast/internal/domain/matchup"
	"github.com/okian/propcast/internal/domain/projection"
	"github.com/okian/propcast/internal/domain/scoring"
	"github.com/okian/propcast/internal/domain/selection"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`
	// CORSOrigins is a comma separated list of allowed browser origins.
	CORSOrigins string `koanf:"cors_origins"`

	// DataDir holds the odds, form, defense and esports tables.
	DataDir string `koanf:"data_dir"`
	// WatchDataDir triggers a refresh whenever a table changes.
	WatchDataDir bool `koanf:"watch_data_dir"`
	// WatchDebounce coalesces bursts of file events.
	WatchDebounce time.Duration `koanf:"watch_debounce"`

	// Seed drives slip sampling. Zero picks a seed per run.
	Seed int64 `koanf:"seed"`

	// Classifier is strict or naive; BettableOdds is the strict threshold.
	Classifier   string `koanf:"classifier"`
	BettableOdds int    `koanf:"bettable_odds"`

	ToughMatchupRank   int `koanf:"tough_matchup_rank"`
	DefensePenaltyRank int `koanf:"defense_penalty_rank"`
	GreatMatchupRank   int `koanf:"great_matchup_rank"`
	FavorableRank      int `koanf:"favorable_rank"`

	PropsOddsFloor    int  `koanf:"props_odds_floor"`
	SlipOddsFloor     int  `koanf:"slip_odds_floor"`
	SlipSize          int  `koanf:"slip_size"`
	MaxSlips          int  `koanf:"max_slips"`
	MaxSlipAttempts   int  `koanf:"max_slip_attempts"`
	DistinctOpponents bool `koanf:"distinct_opponents"`

	DefaultStdDev float64 `koanf:"default_std_dev"`
	L10Weight     float64 `koanf:"l10_weight"`
	H2HWeight     float64 `koanf:"h2h_weight"`

	// Store selects where published runs live: memory or redis.
	Store         string `koanf:"store"`
	RedisURL      string `koanf:"redis_url"`
	RunTTLSeconds int    `koanf:"run_ttl_seconds"`
	HistorySize   int    `koanf:"history_size"`

	// LedgerDSN enables the Postgres recommendation ledger when set.
	LedgerDSN string `koanf:"ledger_dsn"`

	RefreshQueueSize int `koanf:"refresh_queue_size"`
	// FingerprintCacheSize bounds the published-fingerprint cache.
	FingerprintCacheSize int `koanf:"fingerprint_cache_size"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		CORSOrigins:          "*",
		DataDir:              "data",
		WatchDataDir:         false,
		WatchDebounce:        500 * time.Millisecond,
		Seed:                 0,
		Classifier:           classify.PolicyStrict,
		BettableOdds:         classify.DefaultBettableOdds,
		ToughMatchupRank:     matchup.ToughMatchupRank,
		DefensePenaltyRank:   matchup.DefensePenaltyRank,
		GreatMatchupRank:     matchup.GreatMatchupRank,
		FavorableRank:        matchup.DefensePenaltyRank,
		PropsOddsFloor:       selection.DefaultPropsOddsFloor,
		SlipOddsFloor:        selection.DefaultSlipOddsFloor,
		SlipSize:             selection.DefaultSlipSize,
		MaxSlips:             selection.DefaultMaxSlips,
		MaxSlipAttempts:      selection.DefaultMaxAttempts,
		DistinctOpponents:    true,
		DefaultStdDev:        scoring.DefaultStdDev,
		L10Weight:            projection.DefaultL10Weight,
		H2HWeight:            projection.DefaultH2HWeight,
		Store:                StoreMemory,
		RedisURL:             "redis://localhost:6379/0",
		RunTTLSeconds:        int((24 * time.Hour).Seconds()),
		HistorySize:          20,
		RefreshQueueSize:     16,
		FingerprintCacheSize: 64,
	}
}

// Validate checks ranges that the pipeline relies on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DataDir) == "":
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	case c.SlipSize < selection.MinSlipSize || c.SlipSize > selection.MaxSlipSize:
		return fmt.Errorf("%w: slip_size must be between %d and %d, got %d",
			ErrInvalidConfig, selection.MinSlipSize, selection.MaxSlipSize, c.SlipSize)
	case c.MaxSlips < 0 || c.MaxSlipAttempts < 0:
		return fmt.Errorf("%w: max_slips and max_slip_attempts must not be negative", ErrInvalidConfig)
	case c.DefaultStdDev <= 0:
		return fmt.Errorf("%w: default_std_dev must be positive", ErrInvalidConfig)
	case c.L10Weight < 0 || c.H2HWeight < 0 || c.L10Weight+c.H2HWeight == 0:
		return fmt.Errorf("%w: projection weights must be non-negative and not both zero", ErrInvalidConfig)
	case c.ToughMatchupRank <= 0 || c.DefensePenaltyRank <= 0 || c.GreatMatchupRank <= c.ToughMatchupRank:
		return fmt.Errorf("%w: matchup ranks must be positive with great above tough", ErrInvalidConfig)
	case c.HistorySize <= 0 || c.RefreshQueueSize <= 0:
		return fmt.Errorf("%w: history_size and refresh_queue_size must be positive", ErrInvalidConfig)
	}

	if _, err := classify.ForPolicy(c.Classifier, c.BettableOdds); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	switch c.Store {
	case StoreMemory:
	case StoreRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("%w: redis_url is required for the redis store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	return nil
}

// RunTTL is the lifetime of a run in the redis store.
func (c *Config) RunTTL() time.Duration {
	return time.Duration(c.RunTTLSeconds) * time.Second
}

// Origins splits CORSOrigins into trimmed, non-empty entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
