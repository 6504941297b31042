// Package notify publishes match events to subscribers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/okian/vibecheck/internal/domain/match"
	"github.com/okian/vibecheck/pkg/logger"
)

// SubjectMatchEvaluated is the NATS subject prefix for match events:
// match.evaluated.<profile_id>.
const SubjectMatchEvaluated = "match.evaluated"

// Subject returns the subject for a profile's match events.
func Subject(profileID string) string {
	return SubjectMatchEvaluated + "." + profileID
}

// Publisher is the part of *nats.Conn the notifier needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSConfig holds NATS connection settings.
type NATSConfig struct {
	URL           string
	Name          string
	ReconnectWait time.Duration
	MaxReconnects int
}

// DefaultNATSConfig returns the connection defaults for url.
func DefaultNATSConfig(url string) NATSConfig {
	return NATSConfig{
		URL:           url,
		Name:          "vibecheck",
		ReconnectWait: 2 * time.Second,
		MaxReconnects: -1,
	}
}

// Connect dials NATS with reconnect handlers that log through l.
func Connect(cfg NATSConfig, l logger.Logger) (*nats.Conn, error) {
	ctx := context.Background()
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				l.Warn(ctx, "nats disconnected", logger.Error(err))
				return
			}
			l.Warn(ctx, "nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			l.Info(ctx, "nats reconnected", logger.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			l.Info(ctx, "nats connection closed")
		}),
	}
	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	l.Info(ctx, "nats connected", logger.String("url", nc.ConnectedUrl()))
	return nc, nil
}

// NATSNotifier publishes each event as JSON on both profiles' subjects.
type NATSNotifier struct {
	pub Publisher
}

// NewNATSNotifier wraps a publisher, normally a *nats.Conn.
func NewNATSNotifier(pub Publisher) *NATSNotifier {
	return &NATSNotifier{pub: pub}
}

// Notify publishes e. The first publish error aborts the second publish.
func (n *NATSNotifier) Notify(ctx context.Context, e match.Event) error { //nolint:gocritic // hugeParam: Event is passed by value for channel semantics
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", e.EventID, err)
	}
	for _, id := range []string{e.ProfileA, e.ProfileB} {
		if err := n.pub.Publish(Subject(id), data); err != nil {
			return fmt.Errorf("publish %s: %w", Subject(id), err)
		}
	}
	return nil
}
