package pipeline_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/odds"
	"github.com/okian/propcast/internal/domain/pipeline"
	"github.com/okian/propcast/internal/domain/projection"
	. "github.com/smartystreets/goconvey/convey"
)

func quotes(player string, over, under, point string) []odds.QuoteRow {
	return []odds.QuoteRow{
		{Label: odds.LabelOver, Player: player, Price: odds.Coerce(over), Point: odds.Coerce(point)},
		{Label: odds.LabelUnder, Player: player, Price: odds.Coerce(under), Point: odds.Coerce(point)},
	}
}

func fixture() pipeline.Tables {
	var points, rebounds []odds.QuoteRow
	var pointsForm, reboundsForm []model.FormRow
	teams := []string{"BOS", "MIA", "NYK", "CHI", "DEN", "PHX", "LAL", "GSW"}
	for i, team := range teams {
		p := fmt.Sprintf("Player %d", i)
		points = append(points, quotes(p, fmt.Sprint(-112-2*i), "-108", "20.5")...)
		pointsForm = append(pointsForm, model.FormRow{Player: p, Opponent: team, L10: 22 + float64(i)/2, H2H: model.Float64Ptr(21)})
		rebounds = append(rebounds, quotes(p, "-115", fmt.Sprint(-110-i), "6.5")...)
		reboundsForm = append(reboundsForm, model.FormRow{Player: p, Opponent: team, L10: 5})
	}
	// A quote without form is skipped.
	points = append(points, quotes("Ghost", "-110", "-110", "25.5")...)

	return pipeline.Tables{
		Categories: []pipeline.CategoryTables{
			{Category: model.Points, Quotes: points, Form: pointsForm},
			{Category: model.Rebounds, Quotes: rebounds, Form: reboundsForm},
		},
		Defense: []model.DefensiveRating{
			{Team: "BOS", Rating: 108, Rank: 3},
			{Team: "MIA", Rating: 112, Rank: 15},
			{Team: "NYK", Rating: 113, Rank: 18},
		},
	}
}

func TestBuild(t *testing.T) {
	Convey("Given raw tables", t, func() {
		snap, err := pipeline.Build(fixture(), projection.DefaultWeights())

		Convey("Then each category is merged into one Edge table", func() {
			So(err, ShouldBeNil)
			So(len(snap.Records), ShouldEqual, 16)
			So(snap.Skipped, ShouldResemble, []string{"Points:Ghost"})
		})
	})

	Convey("Given a precomputed projections table", t, func() {
		tables := pipeline.Tables{Categories: []pipeline.CategoryTables{{
			Category:    model.Assists,
			Projections: []model.PlayerStatRecord{{Player: "A", BestLine: 6.5, AIProjection: 8, L10: 7}},
		}}}
		snap, err := pipeline.Build(tables, projection.DefaultWeights())
		So(err, ShouldBeNil)
		So(snap.Records[0].Category, ShouldEqual, model.Assists)
	})

	Convey("Given two form rows for one player", t, func() {
		tables := pipeline.Tables{Categories: []pipeline.CategoryTables{{
			Category: model.Points,
			Quotes:   quotes("A", "-110", "-110", "20.5"),
			Form: []model.FormRow{
				{Player: "A", Opponent: "BOS", L10: 22},
				{Player: "A", Opponent: "MIA", L10: 30},
			},
		}}}
		_, err := pipeline.Build(tables, projection.DefaultWeights())

		Convey("Then the build fails instead of mixing rows", func() {
			So(errors.Is(err, projection.ErrInvalidInput), ShouldBeTrue)
		})
	})

	Convey("Given a projections table with a repeated player", t, func() {
		tables := pipeline.Tables{Categories: []pipeline.CategoryTables{{
			Category: model.Assists,
			Projections: []model.PlayerStatRecord{
				{Player: "A", BestLine: 6.5, AIProjection: 8, L10: 7},
				{Player: "A", BestLine: 5.5, AIProjection: 6, L10: 6},
			},
		}}}
		_, err := pipeline.Build(tables, projection.DefaultWeights())
		So(errors.Is(err, projection.ErrInvalidInput), ShouldBeTrue)
	})

	Convey("Given a projections table with a zero line", t, func() {
		tables := pipeline.Tables{Categories: []pipeline.CategoryTables{{
			Category:    model.Assists,
			Projections: []model.PlayerStatRecord{{Player: "A", BestLine: 0, AIProjection: 8, L10: 7}},
		}}}
		_, err := pipeline.Build(tables, projection.DefaultWeights())
		So(errors.Is(err, projection.ErrInvalidInput), ShouldBeTrue)
	})
}

func TestRun(t *testing.T) {
	Convey("Given a built snapshot", t, func() {
		snap, err := pipeline.Build(fixture(), projection.DefaultWeights())
		So(err, ShouldBeNil)
		before := fmt.Sprintf("%+v", snap)

		res, err := pipeline.Run(snap, pipeline.DefaultOptions(), rand.New(rand.NewSource(42)))
		So(err, ShouldBeNil)

		Convey("Then every record lands on the board", func() {
			So(len(res.Board), ShouldEqual, 16)
		})

		Convey("And fades carry no odds and no confidence", func() {
			for _, rec := range res.Board {
				if rec.Direction == model.Fade {
					So(rec.Odds, ShouldBeNil)
					So(rec.Confidence, ShouldEqual, 0)
				} else {
					So(rec.Confidence, ShouldBeBetweenOrEqual, 10, 100)
				}
				So(rec.ProbOver+rec.ProbUnder, ShouldEqual, 100)
			}
		})

		Convey("And unrated opponents count as lookup misses", func() {
			// 5 unrated teams in two categories plus the skipped quote.
			So(res.LookupMisses, ShouldEqual, 11)
			So(res.Board[len(res.Board)-1].MatchupNote, ShouldEqual, "matchup data unavailable")
		})

		Convey("And best props never share an opponent", func() {
			So(res.BestProps, ShouldNotBeEmpty)
			opps := map[string]bool{}
			for _, p := range res.BestProps {
				So(opps[p.Record.Opponent], ShouldBeFalse)
				opps[p.Record.Opponent] = true
			}
		})

		Convey("And the snapshot is left untouched", func() {
			So(fmt.Sprintf("%+v", snap), ShouldEqual, before)
		})

		Convey("And a second run with the same seed is identical", func() {
			again, err := pipeline.Run(snap, pipeline.DefaultOptions(), rand.New(rand.NewSource(42)))
			So(err, ShouldBeNil)
			So(again, ShouldResemble, res)
		})

		Convey("And hot & cold reports the basketball categories", func() {
			So(len(res.HotCold), ShouldEqual, 3)
			So(res.HotCold[0].Hot, ShouldNotBeNil)
			So(res.HotCold[1].Cold, ShouldNotBeNil)
		})
	})

	Convey("Given an invalid slip size", t, func() {
		opt := pipeline.DefaultOptions()
		opt.Slips.NumPlayers = 9
		_, err := pipeline.Run(pipeline.Snapshot{}, opt, rand.New(rand.NewSource(1)))
		So(err, ShouldNotBeNil)
	})
}
