package config_test

import (
	"errors"
	"testing"

	"github.com/okian/propcast/internal/config"
	"github.com/okian/propcast/internal/domain/classify"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should carry the pipeline defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Classifier, convey.ShouldEqual, "strict")
			convey.So(cfg.BettableOdds, convey.ShouldEqual, -110)
			convey.So(cfg.ToughMatchupRank, convey.ShouldEqual, 5)
			convey.So(cfg.DefensePenaltyRank, convey.ShouldEqual, 10)
			convey.So(cfg.GreatMatchupRank, convey.ShouldEqual, 20)
			convey.So(cfg.SlipSize, convey.ShouldEqual, 3)
			convey.So(cfg.MaxSlipAttempts, convey.ShouldEqual, 30)
			convey.So(cfg.DefaultStdDev, convey.ShouldEqual, 4.0)
			convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with out of range values", t, func() {
		cases := map[string]func(*config.Config){
			"slip size":   func(c *config.Config) { c.SlipSize = 5 },
			"std dev":     func(c *config.Config) { c.DefaultStdDev = 0 },
			"weights":     func(c *config.Config) { c.L10Weight, c.H2HWeight = 0, 0 },
			"ranks":       func(c *config.Config) { c.GreatMatchupRank = 3 },
			"classifier":  func(c *config.Config) { c.Classifier = "greedy" },
			"store":       func(c *config.Config) { c.Store = "etcd" },
			"redis url":   func(c *config.Config) { c.Store, c.RedisURL = config.StoreRedis, "" },
			"empty addr":  func(c *config.Config) { c.Addr = "" },
			"history":     func(c *config.Config) { c.HistorySize = 0 },
			"data dir":    func(c *config.Config) { c.DataDir = " " },
			"slip counts": func(c *config.Config) { c.MaxSlips = -1 },
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			_ = name
		}
	})
}

func TestConfig_PipelineOptions(t *testing.T) {
	convey.Convey("Given a config with custom thresholds", t, func() {
		cfg := config.New()
		cfg.Classifier = "naive"
		cfg.SlipSize = 2
		cfg.DistinctOpponents = false
		cfg.FavorableRank = 12
		cfg.ToughMatchupRank = 3

		opt, err := cfg.PipelineOptions()

		convey.Convey("Then they flow into the pipeline policies", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(opt.Classifier, convey.ShouldHaveSameTypeAs, classify.NaiveClassifier{})
			convey.So(opt.Slips.NumPlayers, convey.ShouldEqual, 2)
			convey.So(opt.Slips.DistinctOpponents, convey.ShouldBeFalse)
			convey.So(opt.BestProps.FavorableRank, convey.ShouldEqual, 12)
			convey.So(opt.Notes.Tough, convey.ShouldEqual, 3)
			convey.So(opt.Scorer, convey.ShouldNotBeNil)
			convey.So(cfg.Weights().L10, convey.ShouldEqual, 0.6)
		})
	})

	convey.Convey("Given an unknown classifier", t, func() {
		cfg := config.New()
		cfg.Classifier = "greedy"
		_, err := cfg.PipelineOptions()
		convey.So(errors.Is(err, classify.ErrUnknownPolicy), convey.ShouldBeTrue)
	})
}
