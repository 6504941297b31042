// Package match holds the outcome of evaluating a profile pair and the event
// emitted for it.
package match

import (
	"time"

	"github.com/okian/vibecheck/internal/domain/scoring"
	"github.com/okian/vibecheck/internal/domain/taste"
)

// Result is what an evaluation returns to the caller.
type Result struct {
	ProfileA  string            `json:"profileA"`
	ProfileB  string            `json:"profileB"`
	Nuances   []taste.Nuance    `json:"nuances"`
	Score     int               `json:"compatibilityScore"`
	Breakdown scoring.Breakdown `json:"breakdown"`
	IsMatch   bool              `json:"isMatch"`
}

// Categories lists the nuance categories in result order.
func (r Result) Categories() []string {
	out := make([]string, 0, len(r.Nuances))
	for _, n := range r.Nuances {
		out = append(out, n.Category)
	}
	return out
}

// Event is published after every evaluation.
type Event struct {
	EventID     string    `json:"eventId"`
	ProfileA    string    `json:"profileA"`
	ProfileB    string    `json:"profileB"`
	Score       int       `json:"compatibilityScore"`
	IsMatch     bool      `json:"isMatch"`
	Categories  []string  `json:"categories"`
	EvaluatedAt time.Time `json:"evaluatedAt"`
}

// NewEvent builds the event for r.
func NewEvent(id string, r Result, at time.Time) Event {
	return Event{
		EventID:     id,
		ProfileA:    r.ProfileA,
		ProfileB:    r.ProfileB,
		Score:       r.Score,
		IsMatch:     r.IsMatch,
		Categories:  r.Categories(),
		EvaluatedAt: at.UTC(),
	}
}
