package selection_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/selection"
	. "github.com/smartystreets/goconvey/convey"
)

func over(player string, cat model.Category, opp string, line, proj float64, price int, rank *int) model.BetRecommendation {
	return model.BetRecommendation{
		Record: model.PlayerStatRecord{
			Player: player, Category: cat, Opponent: opp,
			BestLine: line, AIProjection: proj, L10: proj,
			BestOverOdds: model.IntPtr(price), DefRatingRank: rank,
		},
		Direction: model.Over,
		Odds:      model.IntPtr(price),
	}
}

func fade(player string, cat model.Category) model.BetRecommendation {
	return model.BetRecommendation{
		Record:    model.PlayerStatRecord{Player: player, Category: cat, BestLine: 20, AIProjection: 20},
		Direction: model.Fade,
	}
}

func TestValueScore(t *testing.T) {
	Convey("Given a bet at -110 with a 2 point edge", t, func() {
		v, ok := selection.ValueScore(over("A", model.Points, "BOS", 20, 22, -110, nil))
		So(ok, ShouldBeTrue)
		So(v, ShouldAlmostEqual, 2+10000.0/110/75, 1e-9)
	})

	Convey("Given a fade", t, func() {
		_, ok := selection.ValueScore(fade("A", model.Points))
		So(ok, ShouldBeFalse)
	})
}

func TestBestProps(t *testing.T) {
	opt := selection.DefaultBestPropsOptions()

	Convey("Given two Points candidates where one holds an extreme over price", t, func() {
		recs := []model.BetRecommendation{
			over("Star", model.Points, "BOS", 25.5, 30, -105, model.IntPtr(15)),
			over("Solid", model.Points, "MIA", 22.5, 24, -125, model.IntPtr(18)),
			over("F1", model.Rebounds, "NYK", 3.5, 4, 120, nil),
			over("F2", model.Rebounds, "CHI", 3.5, 4, -110, nil),
		}

		picks := selection.BestProps(recs, opt)

		Convey("Then the excluded row is never picked", func() {
			So(len(picks), ShouldEqual, 1)
			So(picks[0].Record.Player, ShouldEqual, "Solid")
			So(picks[0].ValueScore, ShouldBeGreaterThan, 0)
		})

		Convey("And the exclusion set covers the three longest overs", func() {
			ex := selection.ExtremeOddsPlayers([]model.PlayerStatRecord{recs[0].Record, recs[1].Record, recs[2].Record, recs[3].Record}, 3)
			So(ex, ShouldContainKey, "Star")
			So(ex, ShouldContainKey, "F1")
			So(ex, ShouldContainKey, "F2")
			So(ex, ShouldNotContainKey, "Solid")
		})
	})

	Convey("Given the remaining candidate fails the line minimum", t, func() {
		recs := []model.BetRecommendation{
			over("Star", model.Points, "BOS", 25.5, 30, -105, nil),
			over("Solid", model.Points, "MIA", 17.5, 24, -125, nil),
			over("F1", model.Rebounds, "NYK", 3.5, 4, 120, nil),
			over("F2", model.Rebounds, "CHI", 3.5, 4, -110, nil),
		}

		Convey("Then the category yields no pick", func() {
			So(selection.BestProps(recs, opt), ShouldBeEmpty)
		})
	})

	Convey("Given a table with many candidates per category", t, func() {
		recs := []model.BetRecommendation{
			// Fillers absorb the extreme odds exclusion.
			over("X1", model.Assists, "AAA", 1.5, 2, 300, nil),
			over("X2", model.Assists, "BBB", 1.5, 2, 250, nil),
			over("X3", model.Assists, "CCC", 1.5, 2, 200, nil),

			over("P1", model.Points, "BOS", 20.5, 25, -120, model.IntPtr(25)),
			over("P2", model.Points, "MIA", 20.5, 21, -120, model.IntPtr(25)),
			over("R1", model.Rebounds, "BOS", 8.5, 12, -120, model.IntPtr(25)),
			over("R2", model.Rebounds, "DEN", 8.5, 9.5, -130, model.IntPtr(25)),
			over("P1", model.Assists, "BOS", 6.5, 9, -115, model.IntPtr(25)),
			over("A2", model.Assists, "PHX", 6.5, 8, -140, model.IntPtr(8)),
			over("A3", model.Assists, "LAL", 6.5, 7, -160, nil),
			over("A4", model.Assists, "GSW", 6.5, 7, -140, nil),
			fade("A5", model.Assists),
		}

		picks := selection.BestProps(recs, opt)

		Convey("Then each category gets its highest value eligible row", func() {
			So(len(picks), ShouldEqual, 3)
			So(picks[0].Record.Player, ShouldEqual, "P1")
			So(picks[1].Record.Player, ShouldEqual, "R2")
			So(picks[2].Record.Player, ShouldEqual, "A4")
		})

		Convey("And no two picks share an opponent or a player", func() {
			opps := map[string]bool{}
			players := map[string]bool{}
			for _, p := range picks {
				So(opps[p.Record.Opponent], ShouldBeFalse)
				So(players[p.Record.Player], ShouldBeFalse)
				opps[p.Record.Opponent] = true
				players[p.Record.Player] = true
			}
		})
	})
}

func distinctPool(n int) []model.BetRecommendation {
	recs := make([]model.BetRecommendation, 0, n)
	for i := range n {
		recs = append(recs, over(fmt.Sprintf("P%02d", i), model.Points, fmt.Sprintf("T%02d", i), 20.5, 22, -115, nil))
	}
	return recs
}

func TestSlips(t *testing.T) {
	Convey("Given an invalid slip size", t, func() {
		for _, n := range []int{0, 5} {
			o := selection.DefaultSlipOptions()
			o.NumPlayers = n
			_, err := selection.Slips(distinctPool(10), o, rand.New(rand.NewSource(1)))
			So(errors.Is(err, selection.ErrInvalidSlipSize), ShouldBeTrue)
		}
	})

	Convey("Given no random source", t, func() {
		_, err := selection.Slips(distinctPool(10), selection.DefaultSlipOptions(), nil)
		So(errors.Is(err, selection.ErrNilRand), ShouldBeTrue)
	})

	Convey("Given a pool smaller than the slip size", t, func() {
		draw, err := selection.Slips(distinctPool(2), selection.DefaultSlipOptions(), rand.New(rand.NewSource(1)))

		Convey("Then it returns immediately with no slips", func() {
			So(err, ShouldBeNil)
			So(draw.Slips, ShouldBeEmpty)
			So(draw.Attempts, ShouldEqual, 0)
		})
	})

	Convey("Given a large pool of distinct players and opponents", t, func() {
		draw, err := selection.Slips(distinctPool(12), selection.DefaultSlipOptions(), rand.New(rand.NewSource(7)))

		Convey("Then every draw is accepted", func() {
			So(err, ShouldBeNil)
			So(len(draw.Slips), ShouldEqual, 3)
			So(draw.Attempts, ShouldEqual, 3)
			So(draw.PoolSize, ShouldEqual, 12)
		})

		Convey("And no player appears twice across slips", func() {
			seen := map[string]bool{}
			for _, s := range draw.Slips {
				So(len(s.Legs), ShouldEqual, 3)
				for _, p := range s.Players() {
					So(seen[p], ShouldBeFalse)
					seen[p] = true
				}
			}
		})

		Convey("And the same seed draws the same slips", func() {
			again, err := selection.Slips(distinctPool(12), selection.DefaultSlipOptions(), rand.New(rand.NewSource(7)))
			So(err, ShouldBeNil)
			So(again, ShouldResemble, draw)
		})
	})

	Convey("Given one player listed in two categories", t, func() {
		recs := []model.BetRecommendation{
			over("Solo", model.Points, "BOS", 20.5, 22, -115, nil),
			over("Solo", model.Rebounds, "BOS", 6.5, 8, -115, nil),
		}
		o := selection.DefaultSlipOptions()
		o.NumPlayers = 2
		draw, err := selection.Slips(recs, o, rand.New(rand.NewSource(1)))

		Convey("Then every draw is rejected until the attempt cap", func() {
			So(err, ShouldBeNil)
			So(draw.Slips, ShouldBeEmpty)
			So(draw.Attempts, ShouldEqual, selection.DefaultMaxAttempts)
		})
	})

	Convey("Given players who all face the same opponent", t, func() {
		recs := []model.BetRecommendation{
			over("A", model.Points, "BOS", 20.5, 22, -115, nil),
			over("B", model.Points, "BOS", 20.5, 22, -115, nil),
			over("C", model.Points, "BOS", 20.5, 22, -115, nil),
		}
		o := selection.DefaultSlipOptions()
		o.NumPlayers = 2

		Convey("Then opponent diversity rejects every draw", func() {
			draw, err := selection.Slips(recs, o, rand.New(rand.NewSource(1)))
			So(err, ShouldBeNil)
			So(draw.Slips, ShouldBeEmpty)
		})

		Convey("And without it one slip is built before the pool runs dry", func() {
			o.DistinctOpponents = false
			draw, err := selection.Slips(recs, o, rand.New(rand.NewSource(1)))
			So(err, ShouldBeNil)
			So(len(draw.Slips), ShouldEqual, 1)
			So(draw.Attempts, ShouldEqual, 1)
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given mixed recommendations", t, func() {
		recs := []model.BetRecommendation{
			over("A", model.Points, "BOS", 20.5, 22, -115, nil),
			over("B", model.Rebounds, "MIA", 3.5, 5, -115, nil),
			over("C", model.Rebounds, "NYK", 6.5, 8, -200, nil),
			over("D", model.Assists, "CHI", 6.5, 8, -120, nil),
			fade("E", model.Assists),
		}

		Convey("Then the two-mans preset keeps Rebounds and Assists above 4 within the odds floor", func() {
			pool := selection.Pool(recs, selection.TwoMansPreset())
			So(len(pool), ShouldEqual, 1)
			So(pool[0].Record.Player, ShouldEqual, "D")
		})

		Convey("And a direction filter drops overs", func() {
			o := selection.DefaultSlipOptions()
			o.Directions = []model.Direction{model.Under}
			So(selection.Pool(recs, o), ShouldBeEmpty)
		})
	})
}

func TestHotAndCold(t *testing.T) {
	Convey("Given records on both sides of their lines", t, func() {
		records := []model.PlayerStatRecord{
			{Player: "Hot1", Category: model.Points, Opponent: "BOS", BestLine: 20.5, L10: 24.26, BestOverOdds: model.IntPtr(-120)},
			{Player: "Hot2", Category: model.Points, Opponent: "MIA", BestLine: 22.5, L10: 23, BestOverOdds: model.IntPtr(-105)},
			{Player: "Low", Category: model.Points, Opponent: "NYK", BestLine: 15.5, L10: 19, BestOverOdds: model.IntPtr(150)},
			{Player: "Cold1", Category: model.Points, Opponent: "CHI", BestLine: 25.5, L10: 21.04, BestUnderOdds: model.IntPtr(-130)},
			{Player: "Cold2", Category: model.Points, Opponent: "DEN", BestLine: 25.5, L10: 24, BestUnderOdds: model.IntPtr(-112)},
		}

		got := selection.HotAndCold(records, model.BasketballCategories, selection.DefaultMinLines())

		Convey("Then each category is reported in order", func() {
			So(len(got), ShouldEqual, 3)
			So(got[0].Category, ShouldEqual, model.Points)
			So(got[1].Hot, ShouldBeNil)
			So(got[1].Cold, ShouldBeNil)
		})

		Convey("And the hot pick has the longest over price above the line minimum", func() {
			So(got[0].Hot.Player, ShouldEqual, "Hot2")
			So(got[0].Hot.Direction, ShouldEqual, model.Over)
			So(got[0].Hot.Diff, ShouldEqual, 0.5)
		})

		Convey("And the cold pick has the longest under price", func() {
			So(got[0].Cold.Player, ShouldEqual, "Cold2")
			So(got[0].Cold.Diff, ShouldEqual, -1.5)
		})
	})
}
