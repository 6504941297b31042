package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/vibecheck/internal/adapters/mq/queue"
	"github.com/okian/vibecheck/internal/adapters/mq/worker"
	logging "github.com/okian/vibecheck/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// recordingNotifier remembers delivered event ids and fails for chosen ones.
type recordingNotifier struct {
	mu        sync.Mutex
	delivered map[string]int
	failFor   map[string]error
	delay     time.Duration
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{
		delivered: make(map[string]int),
		failFor:   make(map[string]error),
	}
}

func (n *recordingNotifier) Notify(ctx context.Context, e queue.Event) error { //nolint:gocritic // hugeParam: test double
	if n.delay > 0 {
		select {
		case <-time.After(n.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if err, ok := n.failFor[e.EventID]; ok {
		return err
	}
	n.delivered[e.EventID]++
	return nil
}

func (n *recordingNotifier) fail(id string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failFor[id] = err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.delivered)
}

func (n *recordingNotifier) got(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.delivered[id] > 0
}

// eventually polls cond until it holds or a second passes.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading a queue", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		notifier := newRecordingNotifier()
		w := worker.NewInMemoryWorker(q, notifier, worker.WithName("test-worker"))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When an event is enqueued", func() {
			convey.So(q.Enqueue(ctx, queue.Event{EventID: "event-1"}), convey.ShouldBeTrue)

			convey.Convey("Then it is delivered", func() {
				convey.So(eventually(func() bool { return notifier.got("event-1") }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When delivery fails", func() {
			notifier.fail("event-bad", errors.New("nats down"))
			convey.So(q.Enqueue(ctx, queue.Event{EventID: "event-bad"}), convey.ShouldBeTrue)
			convey.So(q.Enqueue(ctx, queue.Event{EventID: "event-good"}), convey.ShouldBeTrue)

			convey.Convey("Then the worker keeps going", func() {
				convey.So(eventually(func() bool { return notifier.got("event-good") }), convey.ShouldBeTrue)
				convey.So(notifier.got("event-bad"), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer shutdownCancel()

			convey.Convey("Then it stops and a second shutdown is harmless", func() {
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the queue closes", func() {
			_ = q.Close()

			convey.Convey("Then Run returns", func() {
				select {
				case <-w.Done():
				case <-time.After(time.Second):
					convey.So("worker still running", convey.ShouldBeEmpty)
				}
			})
		})
	})

	convey.Convey("Given a slow notifier and a short delivery timeout", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		notifier := newRecordingNotifier()
		notifier.delay = time.Second
		w := worker.NewInMemoryWorker(q, notifier, worker.WithDeliveryTimeout(10*time.Millisecond))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("Then the delivery is abandoned and the worker moves on", func() {
			convey.So(q.Enqueue(ctx, queue.Event{EventID: "slow"}), convey.ShouldBeTrue)
			_ = q.Close()
			select {
			case <-w.Done():
			case <-time.After(500 * time.Millisecond):
				convey.So("worker blocked on delivery", convey.ShouldBeEmpty)
			}
			convey.So(notifier.got("slow"), convey.ShouldBeFalse)
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a worker pool", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(256))
		notifier := newRecordingNotifier()

		convey.Convey("When created with no count", func() {
			pool := worker.NewPool(0, q, notifier)

			convey.Convey("Then it sizes itself from the CPU count", func() {
				convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When many events are produced concurrently", func() {
			pool := worker.NewPool(4, q, notifier)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			pool.Start(ctx)

			const producers, perProducer = 5, 20
			var wg sync.WaitGroup
			for i := 0; i < producers; i++ {
				wg.Add(1)
				go func(p int) {
					defer wg.Done()
					for j := 0; j < perProducer; j++ {
						q.Enqueue(ctx, queue.Event{EventID: fmt.Sprintf("event-%d-%d", p, j)})
					}
				}(i)
			}
			wg.Wait()

			convey.Convey("Then shutdown drains every event", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer shutdownCancel()
				convey.So(pool.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(notifier.count(), convey.ShouldEqual, producers*perProducer)
			})
		})

		convey.Convey("When stopped", func() {
			pool := worker.NewPool(2, q, notifier)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			pool.Start(ctx)

			stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
			defer stopCancel()
			pool.Stop(stopCtx)

			// Release the dequeue goroutines still parked on the queue.
			cancel()
			time.Sleep(20 * time.Millisecond)

			convey.Convey("Then later events stay queued", func() {
				convey.So(q.Enqueue(context.Background(), queue.Event{EventID: "late"}), convey.ShouldBeTrue)
				time.Sleep(20 * time.Millisecond)
				convey.So(notifier.got("late"), convey.ShouldBeFalse)
				convey.So(q.Len(), convey.ShouldEqual, 1)
			})
		})
	})
}

func TestNotifierFunc(t *testing.T) {
	convey.Convey("Given a notifier func", t, func() {
		var seen string
		n := worker.NotifierFunc(func(_ context.Context, e queue.Event) error {
			seen = e.EventID
			return nil
		})

		convey.Convey("Then it forwards the event", func() {
			convey.So(n.Notify(context.Background(), queue.Event{EventID: "x"}), convey.ShouldBeNil)
			convey.So(seen, convey.ShouldEqual, "x")
		})
	})
}
