package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	. "github.com/smartystreets/goconvey/convey"
)

func startWatcher(t *testing.T, dir string) (*atomic.Int32, func()) {
	t.Helper()
	var hits atomic.Int32
	w := New(dir, func(context.Context) error {
		hits.Add(1)
		return nil
	}, WithDebounce(100*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	// Give fsnotify a moment to register the directory.
	time.Sleep(50 * time.Millisecond)

	return &hits, func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("watcher: %v", err)
		}
	}
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestWatcher(t *testing.T) {
	Convey("Given a watcher on a data directory", t, func() {
		dir := t.TempDir()
		hits, stop := startWatcher(t, dir)
		defer stop()

		Convey("When a table is written several times in a burst", func() {
			path := filepath.Join(dir, "odds_points.csv")
			for i := 0; i < 3; i++ {
				So(os.WriteFile(path, []byte("Over,A,-110,20.5\n"), 0o600), ShouldBeNil)
			}

			Convey("Then a single refresh is triggered", func() {
				So(eventually(func() bool { return hits.Load() == 1 }), ShouldBeTrue)
				time.Sleep(250 * time.Millisecond)
				So(hits.Load(), ShouldEqual, 1)
			})
		})

		Convey("When a non-table file changes", func() {
			So(os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600), ShouldBeNil)

			Convey("Then nothing is triggered", func() {
				time.Sleep(300 * time.Millisecond)
				So(hits.Load(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a missing directory", t, func() {
		w := New(filepath.Join(t.TempDir(), "missing"), func(context.Context) error { return nil })
		So(w.Run(context.Background()), ShouldNotBeNil)
	})
}

func TestRelevant(t *testing.T) {
	Convey("Given fsnotify events", t, func() {
		So(relevant(fsnotify.Event{Name: "/d/defense.csv", Op: fsnotify.Write}), ShouldBeTrue)
		So(relevant(fsnotify.Event{Name: "/d/DEFENSE.CSV", Op: fsnotify.Create}), ShouldBeTrue)
		So(relevant(fsnotify.Event{Name: "/d/defense.csv", Op: fsnotify.Chmod}), ShouldBeFalse)
		So(relevant(fsnotify.Event{Name: "/d/defense.csv.swp", Op: fsnotify.Write}), ShouldBeFalse)
	})
}
