// Package profile contains the profile records exchanged between the store,
// the match engine and the HTTP layer.
package profile

import (
	"math"
	"time"
)

// NeutralTrait is assumed for any personality trait that was never set.
const NeutralTrait = 50.0

// Trait bounds enforced by producers.
const (
	MinTrait = 0.0
	MaxTrait = 100.0
)

// Vibe types accepted for CurrentVibe.Type.
const (
	VibeSong  = "song"
	VibeMovie = "movie"
	VibeBook  = "book"
	VibeShow  = "show"
)

// Profile is a user's dating profile. Only ID, Interests, Taste and
// Personality take part in matching; the rest is display data.
type Profile struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Age         int         `json:"age"`
	Bio         string      `json:"bio"`
	Photos      []string    `json:"photos"`
	Interests   []string    `json:"interests"`
	Personality Personality `json:"personality"`
	Taste       Taste       `json:"tastePreferences"`
	CurrentVibe *Vibe       `json:"currentVibe"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Taste holds the user-declared cultural lists. Entries are free text and
// are never deduplicated.
type Taste struct {
	Movies  []string `json:"movies"`
	Music   []string `json:"music"`
	Books   []string `json:"books"`
	TVShows []string `json:"tvShows"`
	Genres  []string `json:"genres"`
	Artists []string `json:"artists"`
}

// IsEmpty reports whether every list is empty.
func (t Taste) IsEmpty() bool {
	return len(t.Movies) == 0 && len(t.Music) == 0 && len(t.Books) == 0 &&
		len(t.TVShows) == 0 && len(t.Genres) == 0 && len(t.Artists) == 0
}

// All returns every entry in field order: movies, music, books, tvShows,
// genres, artists.
func (t Taste) All() []string {
	out := make([]string, 0, len(t.Movies)+len(t.Music)+len(t.Books)+len(t.TVShows)+len(t.Genres)+len(t.Artists))
	out = append(out, t.Movies...)
	out = append(out, t.Music...)
	out = append(out, t.Books...)
	out = append(out, t.TVShows...)
	out = append(out, t.Genres...)
	out = append(out, t.Artists...)
	return out
}

// Personality holds the five traits. A nil trait was never provided.
type Personality struct {
	Openness          *float64 `json:"openness,omitempty"`
	Conscientiousness *float64 `json:"conscientiousness,omitempty"`
	Extraversion      *float64 `json:"extraversion,omitempty"`
	Agreeableness     *float64 `json:"agreeableness,omitempty"`
	Neuroticism       *float64 `json:"neuroticism,omitempty"`
}

// Trait identifies one of the five personality traits.
type Trait int

// Traits in canonical order.
const (
	Openness Trait = iota
	Conscientiousness
	Extraversion
	Agreeableness
	Neuroticism
)

// Traits lists every trait in canonical order.
var Traits = []Trait{Openness, Conscientiousness, Extraversion, Agreeableness, Neuroticism}

func (t Trait) String() string {
	switch t {
	case Openness:
		return "openness"
	case Conscientiousness:
		return "conscientiousness"
	case Extraversion:
		return "extraversion"
	case Agreeableness:
		return "agreeableness"
	case Neuroticism:
		return "neuroticism"
	default:
		return "unknown"
	}
}

func (p Personality) ptr(t Trait) *float64 {
	switch t {
	case Openness:
		return p.Openness
	case Conscientiousness:
		return p.Conscientiousness
	case Extraversion:
		return p.Extraversion
	case Agreeableness:
		return p.Agreeableness
	case Neuroticism:
		return p.Neuroticism
	default:
		return nil
	}
}

// Value returns the trait value, or NeutralTrait when it is missing or NaN.
// Out-of-range values are returned as stored.
func (p Personality) Value(t Trait) float64 {
	v := p.ptr(t)
	if v == nil || math.IsNaN(*v) {
		return NeutralTrait
	}
	return *v
}

// IsEmpty reports whether no trait was provided.
func (p Personality) IsEmpty() bool {
	for _, t := range Traits {
		if p.ptr(t) != nil {
			return false
		}
	}
	return true
}

// Clamped returns a copy with every present trait clamped to [MinTrait, MaxTrait].
func (p Personality) Clamped() Personality {
	clamp := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		c := math.Max(MinTrait, math.Min(MaxTrait, *v))
		if math.IsNaN(*v) {
			c = NeutralTrait
		}
		return &c
	}
	return Personality{
		Openness:          clamp(p.Openness),
		Conscientiousness: clamp(p.Conscientiousness),
		Extraversion:      clamp(p.Extraversion),
		Agreeableness:     clamp(p.Agreeableness),
		Neuroticism:       clamp(p.Neuroticism),
	}
}

// TraitPtr is a convenience for building Personality literals.
func TraitPtr(v float64) *float64 { return &v }

// Vibe is what the user is into right now.
type Vibe struct {
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// ValidVibeType reports whether t is an accepted vibe type.
func ValidVibeType(t string) bool {
	switch t {
	case VibeSong, VibeMovie, VibeBook, VibeShow:
		return true
	}
	return false
}
