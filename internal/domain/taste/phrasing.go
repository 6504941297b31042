package taste

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Rand picks an index in [0, n). *rand.Rand from math/rand/v2 satisfies it,
// which lets tests pin the flavour text with a seeded source.
type Rand interface {
	IntN(n int) int
}

// globalRand draws from the concurrency-safe top-level math/rand/v2 source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand is the shared concurrency-safe source.
var DefaultRand Rand = globalRand{}

// pick returns a random word from words. It never influences levels,
// categories, shared items or scores.
func pick(r Rand, words []string) string {
	if len(words) == 0 {
		return ""
	}
	return words[r.IntN(len(words))]
}

// mediaWording holds the templates of one media category. Literal templates
// take the first shared item(s); style templates take the joined cluster
// names. Examples take an item (or cluster) and a random quality word.
type mediaWording struct {
	literalCategory string
	styleCategory   string
	qualities       []string

	profound        string // %s, %s, %d more
	deep            string // %s, %s
	surface         string // %s
	profoundExample string // %s, quality
	deepExample     string // %s, quality
	surfaceExample  string // %s, quality

	style        string // clusters
	styleExample string // clusters, quality
}

var movieWording = mediaWording{
	literalCategory: FilmAppreciation,
	styleCategory:   CinematicSensibilities,
	qualities:       []string{"thought-provoking", "visually stunning", "emotionally resonant", "endlessly rewatchable", "beautifully crafted"},

	profound:        "You two share a serious cinematic palate: %s, %s and %d more titles sit on both of your lists.",
	deep:            "You both rate films like %s and %s, which says a lot about how you see stories.",
	surface:         "You both enjoy %s, a solid first scene for a conversation.",
	profoundExample: "Plan a double feature starting with %s; you already agree it is %s.",
	deepExample:     "Ask each other what made %s feel so %s the first time.",
	surfaceExample:  "Swap stories about watching %s and why it felt %s.",

	style:        "No shared titles yet, but your film tastes meet in %s territory.",
	styleExample: "Trade recommendations from your %s picks; the next one is likely to be %s.",
}

var musicWording = mediaWording{
	literalCategory: MusicalConnection,
	styleCategory:   MusicalWavelength,
	qualities:       []string{"soul-stirring", "hypnotic", "euphoric", "timeless", "electrifying"},

	profound:        "Your playlists practically overlap: %s, %s and %d more are favourites for both of you.",
	deep:            "You both have %s and %s on repeat, a strong sign your moods sync up.",
	surface:         "You both listen to %s, an easy soundtrack to start with.",
	profoundExample: "Build a shared playlist around %s; you both know it sounds %s live.",
	deepExample:     "Compare your favourite %s tracks and what makes them %s.",
	surfaceExample:  "Put on %s during your first date and see if it feels as %s together.",

	style:        "Different artists, same wavelength: you both gravitate to %s sounds.",
	styleExample: "Go find a %s set together; it is likely to be %s.",
}

var bookWording = mediaWording{
	literalCategory: LiteraryKinship,
	styleCategory:   LiteraryResonance,
	qualities:       []string{"unputdownable", "profound", "beautifully written", "mind-expanding", "haunting"},

	profound:        "Your bookshelves mirror each other: %s, %s and %d more are on both lists.",
	deep:            "You have both read and loved %s and %s, so conversation will not run dry.",
	surface:         "You both picked up %s, a good chapter one.",
	profoundExample: "Start a two-person book club with %s as the pick; you both found it %s.",
	deepExample:     "Debate the ending of %s and why it was so %s.",
	surfaceExample:  "Ask which part of %s felt the most %s.",

	style:        "You read different books with the same soul: both of you lean toward %s.",
	styleExample: "Browse the %s shelf of a bookshop together and find something %s.",
}

// literal produces the description and example for a literal overlap.
func (w mediaWording) literal(r Rand, shared []string, level Level) (string, string) {
	quality := pick(r, w.qualities)
	switch level {
	case Profound:
		return fmt.Sprintf(w.profound, shared[0], shared[1], len(shared)-2),
			fmt.Sprintf(w.profoundExample, shared[0], quality)
	case Deep:
		return fmt.Sprintf(w.deep, shared[0], shared[1]),
			fmt.Sprintf(w.deepExample, shared[1], quality)
	default:
		return fmt.Sprintf(w.surface, shared[0]),
			fmt.Sprintf(w.surfaceExample, shared[0], quality)
	}
}

// styled produces the description and example for a style-cluster match.
func (w mediaWording) styled(r Rand, clusters []string) (string, string) {
	joined := joinNames(clusters)
	return fmt.Sprintf(w.style, joined),
		fmt.Sprintf(w.styleExample, clusters[0], pick(r, w.qualities))
}

// joinNames renders "a", "a and b" or "a, b and c".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

const (
	interestsProfound = "Your lives already overlap in %d ways, from %s to %s."
	interestsDeep     = "You both make time for %s and %s."
	interestsSurface  = "You share a passion for %s."
	interestsExample  = "A date built around %s is an easy yes for both of you."

	personalityProfound = "Your personalities are in step on every trait that predicts chemistry: %s."
	personalityDeep     = "Your personalities line up where it counts: %s."
)

var traitExamples = map[string]string{
	"openness":      "You are equally curious about new ideas and experiences (openness within %.0f points).",
	"extraversion":  "Your social batteries charge the same way (extraversion within %.0f points).",
	"agreeableness": "You meet other people with a similar warmth (agreeableness within %.0f points).",
}
