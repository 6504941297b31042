// Package scoring computes the numeric compatibility score of a profile pair.
// It shares the overlap matcher with the taste package but is otherwise
// independent of the nuance findings.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/vibecheck/internal/domain/profile"
	"github.com/okian/vibecheck/internal/domain/taste"
)

// Term weights.
const (
	InterestsWeight   = 25.0
	TasteWeight       = 50.0
	PersonalityWeight = 25.0

	minScore = 0
	maxScore = 100
)

// DivisorPolicy decides what the summed terms are divided by.
type DivisorPolicy string

const (
	// DivisorFixed always divides by the three term kinds.
	DivisorFixed DivisorPolicy = "fixed"
	// DivisorEvaluated divides by the terms that were evaluable: interests
	// and personality always, taste only when a field qualified.
	DivisorEvaluated DivisorPolicy = "evaluated"
)

// ParseDivisorPolicy maps a config string to a policy.
func ParseDivisorPolicy(s string) (DivisorPolicy, error) {
	switch p := DivisorPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case DivisorFixed, DivisorEvaluated:
		return p, nil
	case "":
		return DivisorFixed, nil
	default:
		return "", fmt.Errorf("unknown score divisor policy %q", s)
	}
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithDivisorPolicy selects the divisor policy. Unknown values are ignored.
func WithDivisorPolicy(p DivisorPolicy) Option {
	return func(s *Scorer) {
		if p == DivisorFixed || p == DivisorEvaluated {
			s.policy = p
		}
	}
}

// Breakdown holds the weighted terms behind a score.
type Breakdown struct {
	Interests     float64 `json:"interests"`
	Taste         float64 `json:"taste"`
	Personality   float64 `json:"personality"`
	TasteFields   int     `json:"tasteFields"`
	Divisor       int     `json:"divisor"`
	Compatibility int     `json:"compatibility"`
}

// Scorer is safe for concurrent use.
type Scorer struct {
	policy DivisorPolicy
}

// NewScorer creates a Scorer using the fixed divisor unless told otherwise.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{policy: DivisorFixed}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the active divisor policy.
func (s *Scorer) Policy() DivisorPolicy {
	return s.policy
}

// Score returns the compatibility score in [0, 100].
func (s *Scorer) Score(pa, pb profile.Profile) int {
	return s.Breakdown(pa, pb).Compatibility
}

// Breakdown computes every term and the final score.
func (s *Scorer) Breakdown(pa, pb profile.Profile) Breakdown {
	b := Breakdown{
		Interests:   InterestsTerm(pa.Interests, pb.Interests),
		Personality: PersonalityTerm(pa.Personality, pb.Personality),
	}
	b.Taste, b.TasteFields = TasteTerm(pa.Taste, pb.Taste)

	b.Divisor = 3
	if s.policy == DivisorEvaluated && b.TasteFields == 0 {
		b.Divisor = 2
	}

	raw := math.Round((b.Interests + b.Taste + b.Personality) / float64(b.Divisor))
	if math.IsNaN(raw) {
		raw = minScore
	}
	b.Compatibility = int(math.Max(minScore, math.Min(maxScore, raw)))
	return b
}

// Score is the package-level scorer with the fixed divisor.
func Score(pa, pb profile.Profile) int {
	return NewScorer().Score(pa, pb)
}

// InterestsTerm is the shared share of the longer interest list, weighted.
func InterestsTerm(a, b []string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 0
	}
	return float64(len(taste.SharedExact(a, b))) / float64(longest) * InterestsWeight
}

// TasteTerm averages the substring overlap ratio over movies, music, books
// and TV shows, skipping fields empty on either side. It also returns how
// many fields qualified.
func TasteTerm(a, b profile.Taste) (float64, int) {
	fields := [][2][]string{
		{a.Movies, b.Movies},
		{a.Music, b.Music},
		{a.Books, b.Books},
		{a.TVShows, b.TVShows},
	}
	var (
		sum    float64
		scored int
	)
	for _, f := range fields {
		if len(f[0]) == 0 || len(f[1]) == 0 {
			continue
		}
		sum += float64(len(taste.Overlap(f[0], f[1]))) / float64(max(len(f[0]), len(f[1])))
		scored++
	}
	if scored == 0 {
		return 0, 0
	}
	return sum / float64(scored) * TasteWeight, scored
}

// PersonalityTerm averages per-trait closeness over all five traits. Missing
// traits read as neutral.
func PersonalityTerm(a, b profile.Personality) float64 {
	var sum float64
	for _, t := range profile.Traits {
		closeness := (100 - math.Abs(a.Value(t)-b.Value(t))) / 100
		if math.IsNaN(closeness) || closeness < 0 {
			closeness = 0
		}
		sum += closeness
	}
	return sum / float64(len(profile.Traits)) * PersonalityWeight
}
