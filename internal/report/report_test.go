package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/propcast/internal/config"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/selection"
	"github.com/okian/propcast/internal/report"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleReport() report.Report {
	leg := model.BetRecommendation{
		Record:      model.PlayerStatRecord{Player: "Jayson Tatum", Category: model.Points, Opponent: "NYK", BestLine: 26.5},
		Direction:   model.Over,
		Odds:        model.IntPtr(-115),
		Confidence:  66,
		MatchupNote: "Neutral",
	}
	return report.Report{
		Source:      "data",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Seed:        7,
		BestProps:   []model.BetRecommendation{leg},
		Slips:       []model.Slip{{Legs: []model.BetRecommendation{leg}}},
		HotCold: []selection.HotCold{{
			Category: model.Points,
			Hot:      &selection.HotColdPick{Player: "Jayson Tatum", Direction: model.Over, Line: 26.5, L10: 28.4, Odds: 120, Diff: 1.9},
		}},
	}
}

func TestConfig_Validate(t *testing.T) {
	Convey("Given report configs", t, func() {
		So(errors.Is(report.Config{}.Validate(), report.ErrNoSource), ShouldBeTrue)
		So(errors.Is(report.Config{DataDir: "d", Format: "xml"}.Validate(), report.ErrUnknownFormat), ShouldBeTrue)
		So(report.Config{BaseURL: "http://x", Format: report.FormatJSON}.Validate(), ShouldBeNil)
	})
}

func TestRender(t *testing.T) {
	Convey("Given a report", t, func() {
		rep := sampleReport()

		Convey("When rendering text", func() {
			var buf bytes.Buffer
			So(report.Render(&buf, rep, report.FormatText), ShouldBeNil)
			out := buf.String()

			Convey("Then every section is printed", func() {
				So(out, ShouldContainSubstring, "BEST PROPS")
				So(out, ShouldContainSubstring, "SLIPS")
				So(out, ShouldContainSubstring, "HOT & COLD")
				So(out, ShouldContainSubstring, "Jayson Tatum")
				So(out, ShouldContainSubstring, "Over 26.5")
				So(out, ShouldContainSubstring, "-115")
				So(out, ShouldContainSubstring, "+1.9")
				So(out, ShouldContainSubstring, "seed=7")
			})
		})

		Convey("When rendering JSON", func() {
			var buf bytes.Buffer
			So(report.Render(&buf, rep, report.FormatJSON), ShouldBeNil)
			var back report.Report
			So(json.Unmarshal(buf.Bytes(), &back), ShouldBeNil)
			So(len(back.BestProps), ShouldEqual, 1)
			So(back.Seed, ShouldEqual, 7)
		})

		Convey("When the report is empty", func() {
			var buf bytes.Buffer
			So(report.Render(&buf, report.Report{}, ""), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "none")
		})

		Convey("When the format is unknown", func() {
			err := report.Render(&bytes.Buffer{}, rep, "yaml")
			So(errors.Is(err, report.ErrUnknownFormat), ShouldBeTrue)
		})
	})
}

func TestLocal(t *testing.T) {
	Convey("Given a data directory", t, func() {
		dir := t.TempDir()
		files := map[string]string{
			"odds_points.csv": "Over,Jayson Tatum,-115,26.5\nUnder,Jayson Tatum,-105,26.5\n",
			"form_points.csv": "Player,Opponent,L10,H2H\nJayson Tatum,NYK,28.4,30.0\n",
			"defense.csv":     "TEAM,DEF_RTG\nNYK,112.5\nBOS,110.2\n",
		}
		for name, content := range files {
			So(os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600), ShouldBeNil)
		}
		seed := int64(5)

		Convey("When running a local report", func() {
			rep, err := report.Local(context.Background(), report.Config{DataDir: dir, Seed: &seed}, config.New())

			Convey("Then the pipeline output is reported", func() {
				So(err, ShouldBeNil)
				So(rep.Seed, ShouldEqual, 5)
				So(rep.Source, ShouldEqual, dir)
				So(len(rep.Slips), ShouldEqual, 0)
				So(len(rep.HotCold), ShouldEqual, 3)
			})
		})

		Convey("When the preset is unknown", func() {
			_, err := report.Local(context.Background(), report.Config{DataDir: dir, Preset: "parlay"}, config.New())
			So(err, ShouldNotBeNil)
		})

		Convey("When the defense table is missing", func() {
			So(os.Remove(filepath.Join(dir, "defense.csv")), ShouldBeNil)
			_, err := report.Local(context.Background(), report.Config{DataDir: dir}, config.New())
			So(err, ShouldNotBeNil)
		})
	})
}

func TestHTTPClient(t *testing.T) {
	Convey("Given a server with a published run", t, func() {
		var slipsQuery string
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v1/props", func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(sampleReport().BestProps)
		})
		mux.HandleFunc("/api/v1/slips", func(w http.ResponseWriter, r *http.Request) {
			slipsQuery = r.URL.RawQuery
			_ = json.NewEncoder(w).Encode(map[string]any{"seed": 9, "slips": sampleReport().Slips})
		})
		mux.HandleFunc("/api/v1/hotcold", func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(sampleReport().HotCold)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("When fetching a report", func() {
			seed := int64(9)
			rep, err := report.NewHTTPClient(srv.URL+"/", time.Second).Fetch(context.Background(),
				report.Config{BaseURL: srv.URL, Seed: &seed, Preset: "two-mans"})

			Convey("Then it is assembled from the API", func() {
				So(err, ShouldBeNil)
				So(rep.Seed, ShouldEqual, 9)
				So(len(rep.BestProps), ShouldEqual, 1)
				So(len(rep.Slips), ShouldEqual, 1)
				So(len(rep.HotCold), ShouldEqual, 1)
				So(slipsQuery, ShouldEqual, "preset=two-mans&seed=9")
			})
		})
	})

	Convey("Given a server without data", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"code":"unavailable"}`, http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := report.NewHTTPClient(srv.URL, 0).Fetch(context.Background(), report.Config{BaseURL: srv.URL})
		So(errors.Is(err, report.ErrServer), ShouldBeTrue)
	})
}
