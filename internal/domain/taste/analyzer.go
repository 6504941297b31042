package taste

import (
	"fmt"
	"math"

	"github.com/okian/vibecheck/internal/domain/profile"
)

// Personality tolerances: a trait is compatible when the absolute difference
// is at most the tolerance. Extraversion mismatches matter less.
const (
	OpennessTolerance      = 20.0
	ExtraversionTolerance  = 25.0
	AgreeablenessTolerance = 20.0
)

type traitTolerance struct {
	trait     profile.Trait
	tolerance float64
}

var personalityChecks = []traitTolerance{
	{profile.Openness, OpennessTolerance},
	{profile.Extraversion, ExtraversionTolerance},
	{profile.Agreeableness, AgreeablenessTolerance},
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClusters replaces the keyword cluster table.
func WithClusters(cs ClusterSet) Option {
	return func(a *Analyzer) {
		a.clusters = cs.Normalize()
	}
}

// WithRand sets the source used for flavour words in examples.
func WithRand(r Rand) Option {
	return func(a *Analyzer) {
		if r != nil {
			a.rng = r
		}
	}
}

// Analyzer runs the category analyzers. It holds no per-request state; the
// default random source is safe for concurrent use, a custom one may not be.
type Analyzer struct {
	clusters ClusterSet
	rng      Rand
}

// NewAnalyzer creates an Analyzer with the built-in clusters.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		clusters: DefaultClusters.Normalize(),
		rng:      DefaultRand,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Clusters returns the active cluster table.
func (a *Analyzer) Clusters() ClusterSet {
	return a.clusters
}

// Aggregate runs every analyzer in presentation order (movies, music, books,
// interests, personality) and keeps the findings that exist.
func (a *Analyzer) Aggregate(pa, pb profile.Profile) []Nuance {
	candidates := []*Nuance{
		a.Movies(pa, pb),
		a.Music(pa, pb),
		a.Books(pa, pb),
		a.Interests(pa, pb),
		a.Personality(pa, pb),
	}
	out := make([]Nuance, 0, len(candidates))
	for _, n := range candidates {
		if n != nil {
			out = append(out, *n)
		}
	}
	return out
}

// Movies compares movie lists.
func (a *Analyzer) Movies(pa, pb profile.Profile) *Nuance {
	return a.media(pa.Taste.Movies, pb.Taste.Movies, a.clusters.Movies, movieWording)
}

// Music compares music lists.
func (a *Analyzer) Music(pa, pb profile.Profile) *Nuance {
	return a.media(pa.Taste.Music, pb.Taste.Music, a.clusters.Music, musicWording)
}

// Books compares book lists.
func (a *Analyzer) Books(pa, pb profile.Profile) *Nuance {
	return a.media(pa.Taste.Books, pb.Taste.Books, a.clusters.Books, bookWording)
}

// media tries literal overlap first and falls back to style clusters.
func (a *Analyzer) media(la, lb []string, clusters []Cluster, w mediaWording) *Nuance {
	if shared := Overlap(la, lb); len(shared) > 0 {
		level := literalLevel(len(shared))
		desc, example := w.literal(a.rng, shared, level)
		return &Nuance{
			Category:    w.literalCategory,
			SharedItems: shared,
			Description: desc,
			Level:       level,
			Examples:    []string{example},
		}
	}

	styles := Classify(la, lb, clusters)
	if len(styles) == 0 {
		return nil
	}
	desc, example := w.styled(a.rng, styles)
	return &Nuance{
		Category:    w.styleCategory,
		SharedItems: styles,
		Description: desc,
		Level:       Deep,
		Examples:    []string{example},
	}
}

// Interests compares interest tags by case-insensitive equality.
func (a *Analyzer) Interests(pa, pb profile.Profile) *Nuance {
	shared := SharedExact(pa.Interests, pb.Interests)
	if len(shared) == 0 {
		return nil
	}
	level := interestLevel(len(shared))

	var desc string
	switch level {
	case Profound:
		desc = fmt.Sprintf(interestsProfound, len(shared), shared[0], shared[len(shared)-1])
	case Deep:
		desc = fmt.Sprintf(interestsDeep, shared[0], shared[1])
	default:
		desc = fmt.Sprintf(interestsSurface, shared[0])
	}
	return &Nuance{
		Category:    LifestyleHarmony,
		SharedItems: shared,
		Description: desc,
		Level:       level,
		Examples:    []string{fmt.Sprintf(interestsExample, shared[0])},
	}
}

// Personality checks openness, extraversion and agreeableness against their
// tolerances. Missing traits read as neutral, but a profile with no
// personality data at all gives no evidence and yields no finding.
func (a *Analyzer) Personality(pa, pb profile.Profile) *Nuance {
	if pa.Personality.IsEmpty() || pb.Personality.IsEmpty() {
		return nil
	}
	var (
		traits   []string
		examples []string
	)
	for _, c := range personalityChecks {
		diff := math.Abs(pa.Personality.Value(c.trait) - pb.Personality.Value(c.trait))
		if math.IsNaN(diff) || diff > c.tolerance {
			continue
		}
		name := c.trait.String()
		traits = append(traits, name)
		examples = append(examples, fmt.Sprintf(traitExamples[name], c.tolerance))
	}
	if len(traits) == 0 {
		return nil
	}

	level := Deep
	desc := fmt.Sprintf(personalityDeep, joinNames(traits))
	if len(traits) >= len(personalityChecks) {
		level = Profound
		desc = fmt.Sprintf(personalityProfound, joinNames(traits))
	}
	return &Nuance{
		Category:    PersonalitySynergy,
		SharedItems: traits,
		Description: desc,
		Level:       level,
		Examples:    examples,
	}
}
