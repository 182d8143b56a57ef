package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/propcast/internal/adapters/mq/queue"
	"github.com/okian/propcast/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type recordingRefresher struct {
	mu   sync.Mutex
	ids  []string
	fail map[string]bool
	seen chan string
}

func newRecordingRefresher() *recordingRefresher {
	return &recordingRefresher{fail: map[string]bool{}, seen: make(chan string, 16)}
}

func (r *recordingRefresher) Refresh(_ context.Context, req model.RefreshRequest) error {
	r.mu.Lock()
	r.ids = append(r.ids, req.ID)
	r.mu.Unlock()
	r.seen <- req.ID
	if r.fail[req.ID] {
		return errors.New("boom")
	}
	return nil
}

func (r *recordingRefresher) processed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func waitFor(t *testing.T, ch <-chan string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for refresh %d", i+1)
		}
	}
}

func TestInMemoryWorker(t *testing.T) {
	Convey("Given a worker reading a refresh queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		ref := newRecordingRefresher()
		w := NewInMemoryWorker(q, ref, WithName("test"), WithRefreshTimeout(time.Second))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		Convey("When requests are enqueued", func() {
			So(q.Enqueue(ctx, model.RefreshRequest{ID: "a"}), ShouldBeNil)
			So(q.Enqueue(ctx, model.RefreshRequest{ID: "b"}), ShouldBeNil)
			waitFor(t, ref.seen, 2)

			Convey("Then they are processed in order", func() {
				So(ref.processed(), ShouldResemble, []string{"a", "b"})
			})
		})

		Convey("When a refresh fails", func() {
			ref.fail["bad"] = true
			So(q.Enqueue(ctx, model.RefreshRequest{ID: "bad"}), ShouldBeNil)
			So(q.Enqueue(ctx, model.RefreshRequest{ID: "good"}), ShouldBeNil)
			waitFor(t, ref.seen, 2)

			Convey("Then the worker keeps going", func() {
				So(ref.processed(), ShouldResemble, []string{"bad", "good"})
			})
		})

		Convey("When the worker is shut down", func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), time.Second)
			defer stop()

			Convey("Then it stops and a second shutdown is harmless", func() {
				So(w.Shutdown(shutdownCtx), ShouldBeNil)
				So(w.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})
	})
}

func TestInMemoryWorker_QueueClosed(t *testing.T) {
	Convey("Given a worker whose queue is closed", t, func() {
		q := queue.NewInMemoryQueue()
		w := NewInMemoryWorker(q, newRecordingRefresher())
		done := make(chan struct{})
		go func() {
			w.Run(context.Background())
			close(done)
		}()
		So(q.Close(), ShouldBeNil)

		Convey("Then Run returns", func() {
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("worker did not stop")
			}
		})
	})
}
