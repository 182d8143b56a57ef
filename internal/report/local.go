package report

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/okian/propcast/internal/adapters/csvload"
	"github.com/okian/propcast/internal/config"
	"github.com/okian/propcast/internal/domain/pipeline"
	"github.com/okian/propcast/internal/domain/selection"
	"github.com/okian/propcast/pkg/logger"
)

// Local runs the pipeline once over cfg.DataDir with the thresholds in app.
func Local(ctx context.Context, cfg Config, app *config.Config) (Report, error) {
	opt, err := app.PipelineOptions()
	if err != nil {
		return Report{}, fmt.Errorf("pipeline options: %w", err)
	}
	if cfg.Preset != "" {
		if cfg.Preset != selection.PresetTwoMans {
			return Report{}, fmt.Errorf("unknown preset %q", cfg.Preset)
		}
		opt.Slips = selection.TwoMansPreset()
	}

	loader := csvload.New(cfg.DataDir, csvload.WithLogger(logger.Named("csvload")))
	tables, err := loader.Load(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load tables: %w", err)
	}
	snap, err := pipeline.Build(tables, app.Weights())
	if err != nil {
		return Report{}, fmt.Errorf("build snapshot: %w", err)
	}

	seed := app.Seed
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	res, err := pipeline.Run(snap, opt, rand.New(rand.NewSource(seed))) //nolint:gosec // slip sampling only
	if err != nil {
		return Report{}, fmt.Errorf("run pipeline: %w", err)
	}

	return Report{
		Source:      loader.Dir(),
		GeneratedAt: time.Now().UTC(),
		Seed:        seed,
		BestProps:   res.BestProps,
		Slips:       res.Slips,
		HotCold:     res.HotCold,
		Misses:      res.LookupMisses,
	}, nil
}
