package notify

import (
	"context"

	"github.com/okian/vibecheck/internal/domain/match"
	"github.com/okian/vibecheck/pkg/logger"
)

// LogNotifier writes events to the log. It is used when no broker is set.
type LogNotifier struct {
	logger logger.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(l logger.Logger) *LogNotifier {
	return &LogNotifier{logger: l}
}

// Notify implements worker.Notifier.
func (n *LogNotifier) Notify(ctx context.Context, e match.Event) error { //nolint:gocritic // hugeParam: Event is passed by value for channel semantics
	n.logger.Debug(ctx, "match evaluated",
		logger.String("eventID", e.EventID),
		logger.String("profileA", e.ProfileA),
		logger.String("profileB", e.ProfileB),
		logger.Int("score", e.Score),
		logger.Bool("isMatch", e.IsMatch),
		logger.Strings("categories", e.Categories),
	)
	return nil
}
