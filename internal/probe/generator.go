package probe

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Pools overlap with the server's keyword clusters so that seeded pairs
// produce a mix of surface, deep and profound nuances.
var (
	interestPool = []string{"Hiking", "Coffee", "Photography", "Cooking", "Yoga", "Travel", "Climbing", "Board Games", "Jazz", "Running", "Painting", "Cycling"}
	moviePool    = []string{"Inception", "Arrival", "Dune", "Blade Runner 2049", "Spirited Away", "Hereditary", "Paddington 2", "The Grand Budapest Hotel", "Get Out", "Coco"}
	musicPool    = []string{"Radiohead", "Bon Iver", "Taylor Swift", "Miles Davis", "Frank Ocean", "Daft Punk", "Phoebe Bridgers", "Kendrick Lamar", "Aphex Twin"}
	bookPool     = []string{"Dune", "Normal People", "The Hobbit", "Sapiens", "Beloved", "Neuromancer", "Pride and Prejudice", "The Road"}
	genrePool    = []string{"sci-fi", "indie", "jazz", "horror", "comedy", "folk", "hip-hop"}
	traitNames   = []string{"openness", "conscientiousness", "extraversion", "agreeableness", "neuroticism"}
)

// generator produces deterministic profiles and pairs for a seed.
type generator struct {
	rng *rand.Rand
}

func newGenerator(seed uint64) *generator {
	return &generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// ids returns n fresh profile ids. They double as bearer tokens against
// a server that trusts UUID tokens.
func (g *generator) ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = uuid.NewString()
	}
	return out
}

func (g *generator) profile(i int) profilePayload {
	p := profilePayload{
		Name:      fmt.Sprintf("probe-%d", i),
		Age:       18 + g.rng.IntN(43),
		Interests: g.pick(interestPool, 1+g.rng.IntN(5)),
		Taste: tastePayload{
			Movies: g.pick(moviePool, g.rng.IntN(4)),
			Music:  g.pick(musicPool, g.rng.IntN(4)),
			Books:  g.pick(bookPool, g.rng.IntN(3)),
			Genres: g.pick(genrePool, g.rng.IntN(3)),
		},
	}
	// Roughly a quarter of profiles carry no personality data.
	if g.rng.IntN(4) > 0 {
		p.Personality = make(map[string]int, len(traitNames))
		for _, t := range traitNames {
			p.Personality[t] = g.rng.IntN(101)
		}
	}
	return p
}

// pick returns n distinct items of pool in random order.
func (g *generator) pick(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	idx := g.rng.Perm(len(pool))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}

// pair returns two distinct indexes below n. n must be at least 2.
func (g *generator) pair(n int) (int, int) {
	a := g.rng.IntN(n)
	b := g.rng.IntN(n - 1)
	if b >= a {
		b++
	}
	return a, b
}
