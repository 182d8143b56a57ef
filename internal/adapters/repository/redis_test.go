package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"
)

// Runs against a real server when PROPCAST_REDIS_TEST_URL is set, e.g.
// redis://localhost:6379/15.
func testRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("PROPCAST_REDIS_TEST_URL")
	if url == "" {
		t.Skip("PROPCAST_REDIS_TEST_URL not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, url)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() {
		client.FlushDB(ctx)
		_ = client.Close()
	})
	return client
}

func TestRedisStore_Keys(t *testing.T) {
	Convey("Given a redis store with a custom prefix", t, func() {
		s := NewRedisStore(nil, WithKeyPrefix("test"))

		Convey("Then keys are namespaced", func() {
			So(s.runKey("abc"), ShouldEqual, "test:run:abc")
			So(s.listKey(), ShouldEqual, "test:runs")
		})

		Convey("And an empty run ID is rejected before touching redis", func() {
			err := s.Save(context.Background(), Run{})
			So(errors.Is(err, ErrInvalidRun), ShouldBeTrue)
		})

		Convey("And an invalid limit is rejected before touching redis", func() {
			_, err := s.List(context.Background(), -1)
			So(errors.Is(err, ErrInvalidLimit), ShouldBeTrue)
		})
	})

	Convey("Given a malformed redis URL", t, func() {
		_, err := NewRedisClient(context.Background(), "not-a-url")
		So(err, ShouldNotBeNil)
	})
}

func TestRedisStore_RoundTrip(t *testing.T) {
	client := testRedisClient(t)
	ctx := context.Background()

	Convey("Given a redis store", t, func() {
		s := NewRedisStore(client, WithHistorySize(2), WithTTL(time.Minute), WithKeyPrefix("propcast-test"))

		_, err := s.Latest(ctx)
		So(errors.Is(err, ErrNotFound), ShouldBeTrue)

		So(s.Save(ctx, sampleRun("r1")), ShouldBeNil)
		So(s.Save(ctx, sampleRun("r2")), ShouldBeNil)
		So(s.Save(ctx, sampleRun("r3")), ShouldBeNil)

		Convey("Then the newest run is latest and history is capped", func() {
			latest, err := s.Latest(ctx)
			So(err, ShouldBeNil)
			So(latest.ID, ShouldEqual, "r3")
			So(len(latest.Result.Board), ShouldEqual, 2)
			So(*latest.Result.Board[0].Odds, ShouldEqual, -110)

			n, err := s.Count(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)

			list, err := s.List(ctx, 10)
			So(err, ShouldBeNil)
			So(len(list), ShouldEqual, 2)
			So(list[1].ID, ShouldEqual, "r2")
		})
	})
}
