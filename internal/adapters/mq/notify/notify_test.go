package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/okian/vibecheck/internal/adapters/mq/notify"
	"github.com/okian/vibecheck/internal/domain/match"
	"github.com/okian/vibecheck/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type published struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	msgs []published
	err  error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{subject, data})
	return nil
}

func TestNATSNotifier(t *testing.T) {
	Convey("Given a notifier on a fake publisher", t, func() {
		pub := &fakePublisher{}
		n := notify.NewNATSNotifier(pub)
		e := match.Event{EventID: "e1", ProfileA: "a", ProfileB: "b", Score: 30, IsMatch: true, Categories: []string{"Film Appreciation"}}

		Convey("When notifying", func() {
			err := n.Notify(context.Background(), e)

			Convey("Then both profiles' subjects get the JSON event", func() {
				So(err, ShouldBeNil)
				So(pub.msgs, ShouldHaveLength, 2)
				So(pub.msgs[0].subject, ShouldEqual, "match.evaluated.a")
				So(pub.msgs[1].subject, ShouldEqual, "match.evaluated.b")

				var decoded match.Event
				So(json.Unmarshal(pub.msgs[0].data, &decoded), ShouldBeNil)
				So(decoded.EventID, ShouldEqual, "e1")
				So(decoded.Categories, ShouldResemble, e.Categories)
			})
		})

		Convey("When the publisher fails", func() {
			pub.err = errors.New("no connection")
			So(n.Notify(context.Background(), e), ShouldNotBeNil)
		})

		Convey("When the context is already done", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			So(errors.Is(n.Notify(ctx, e), context.Canceled), ShouldBeTrue)
			So(pub.msgs, ShouldBeEmpty)
		})
	})
}

func TestLogNotifier(t *testing.T) {
	Convey("Given a log notifier", t, func() {
		So(logger.Init(), ShouldBeNil)
		n := notify.NewLogNotifier(logger.Get())
		So(n.Notify(context.Background(), match.Event{EventID: "e"}), ShouldBeNil)
	})
}

// TestNATSRoundTrip needs a NATS server at VIBE_TEST_NATS_URL.
func TestNATSRoundTrip(t *testing.T) {
	url := os.Getenv("VIBE_TEST_NATS_URL")
	if url == "" {
		t.Skip("VIBE_TEST_NATS_URL not set")
	}
	_ = logger.Init()
	nc, err := notify.Connect(notify.DefaultNATSConfig(url), logger.Get())
	if err != nil {
		t.Skipf("nats not available: %v", err)
	}
	t.Cleanup(nc.Close)

	Convey("Given a subscriber on a profile subject", t, func() {
		id := uuid.NewString()
		got := make(chan *nats.Msg, 1)
		sub, err := nc.ChanSubscribe(notify.Subject(id), got)
		So(err, ShouldBeNil)
		Reset(func() { _ = sub.Unsubscribe() })

		Convey("Then a published event arrives", func() {
			So(notify.NewNATSNotifier(nc).Notify(context.Background(), match.Event{EventID: "rt", ProfileA: id, ProfileB: uuid.NewString()}), ShouldBeNil)
			So(nc.Flush(), ShouldBeNil)
			select {
			case msg := <-got:
				So(string(msg.Data), ShouldContainSubstring, `"eventId":"rt"`)
			case <-time.After(2 * time.Second):
				So("no message received", ShouldBeEmpty)
			}
		})
	})
}
