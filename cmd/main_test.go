package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/propcast/internal/adapters/repository"
	"github.com/okian/propcast/internal/config"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

var dataFiles = map[string]string{
	"odds_points.csv": `Over,Jayson Tatum,-115,26.5
Under,Jayson Tatum,-105,26.5
Over,Jalen Brunson,-110,25.5
Under,Jalen Brunson,-110,25.5
`,
	"form_points.csv": `Player,Opponent,L10_PTS,H2H_PTS
Jayson Tatum,New York Knicks,28.4,30.0
Jalen Brunson,BOS,22.0,
`,
	"defense.csv": `TEAM,DEF RTG
Boston Celtics,110.2
NYK,112.5
`,
}

func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range dataFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			// Test with environment variables
			_ = os.Setenv("PROPCAST_ADDR", ":8080")
			_ = os.Setenv("PROPCAST_REFRESH_QUEUE_SIZE", "4")
			defer func() {
				_ = os.Unsetenv("PROPCAST_ADDR")
				_ = os.Unsetenv("PROPCAST_REFRESH_QUEUE_SIZE")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RefreshQueueSize, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When building the memory store", func() {
			store, closeStore, err := buildStore(context.Background(), config.New())
			defer closeStore()

			convey.Convey("Then it should be the in-memory store", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(store, convey.ShouldHaveSameTypeAs, &repository.MemoryStore{})
			})
		})

		convey.Convey("When the redis store is unreachable", func() {
			cfg := config.New()
			cfg.Store = config.StoreRedis
			cfg.RedisURL = "redis://127.0.0.1:1/0"
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			_, _, err := buildStore(ctx, cfg)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the classifier is unknown", func() {
			cfg := config.New()
			cfg.Classifier = "greedy"
			_, err := buildService(cfg, repository.NewMemoryStore())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given a data directory and default config", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cfg := config.New()
		cfg.DataDir = writeDataDir(t)
		cfg.Seed = 11

		store, closeStore, err := buildStore(ctx, cfg)
		convey.So(err, convey.ShouldBeNil)
		defer closeStore()

		svc, err := buildService(cfg, store, nil)
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		ts := httptest.NewServer(newHTTPServer(cfg, svc).Handler)
		defer ts.Close()

		convey.Convey("Then the API answers 503 before the first run", func() {
			resp, err := http.Get(ts.URL + "/api/v1/props")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusServiceUnavailable)
		})

		convey.Convey("And after a refresh the board is served", func() {
			run, _, err := svc.Publish(ctx, model.RefreshRequest{Reason: model.ReasonStartup})
			convey.So(err, convey.ShouldBeNil)
			convey.So(run.Seed, convey.ShouldEqual, 11)

			resp, err := http.Get(ts.URL + "/api/v1/board?category=points")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

			var board []model.BetRecommendation
			convey.So(json.NewDecoder(resp.Body).Decode(&board), convey.ShouldBeNil)
			convey.So(len(board), convey.ShouldEqual, 2)
			convey.So(board[0].Record.Player, convey.ShouldEqual, "Jayson Tatum")
			convey.So(board[0].Direction, convey.ShouldEqual, model.Over)
			convey.So(*board[0].Record.DefRatingRank, convey.ShouldEqual, 2)
		})

		convey.Convey("And a broken table answers 422 on refresh", func() {
			path := filepath.Join(cfg.DataDir, "defense.csv")
			convey.So(os.WriteFile(path, []byte("TEAM\nBOS\n"), 0o600), convey.ShouldBeNil)

			resp, err := http.Post(ts.URL+"/api/v1/refresh", "application/json", nil)
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusUnprocessableEntity)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing service metrics updater", func() {
			svc, err := buildService(config.New(), repository.NewMemoryStore())
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then it should return when the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startServiceMetricsUpdater(ctx, svc)
				}, convey.ShouldNotPanic)
			})
		})
	})
}
