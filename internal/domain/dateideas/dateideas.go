// Package dateideas builds date suggestions, either from taste-graph
// recommendations or from a fixed catalogue when none are available.
package dateideas

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/okian/vibecheck/internal/domain/profile"
	"github.com/okian/vibecheck/internal/domain/taste"
)

// Limits and defaults.
const (
	MaxIdeas        = 6
	MaxPreferences  = 20
	DefaultLocation = "New York, NY"
	DefaultLimit    = 10

	minInsightVibe  = 75
	minFallbackVibe = 80
	fallbackVibeLen = 20
)

// Categories requested from the insights service.
var InsightCategories = []string{"restaurants", "activities", "entertainment", "events"}

// Date categories.
const (
	FoodDining         = "Food & Dining"
	ActivitiesFun      = "Activities & Fun"
	EventsCulture      = "Events & Culture"
	ArtsCulture        = "Arts & Culture"
	OutdoorAdventure   = "Outdoor & Adventure"
	MusicEntertainment = "Music & Entertainment"
)

// Costs.
const (
	CostFree = "Free"
	CostLow  = "$"
	CostMid  = "$$"
	CostHigh = "$$$"
)

// DateIdea is one suggestion.
type DateIdea struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Duration    string `json:"duration"`
	Cost        string `json:"cost"`
	VibeMatch   int    `json:"vibeMatch"`
}

// Request carries the caller's preferences.
type Request struct {
	Interests   []string             `json:"interests,omitempty"`
	Taste       profile.Taste        `json:"tastePreferences"`
	Personality *profile.Personality `json:"personality,omitempty"`
	Location    string               `json:"location,omitempty"`
}

// Preferences flattens interests and taste lists into at most MaxPreferences
// strings, interests first.
func (r Request) Preferences() []string {
	all := make([]string, 0, len(r.Interests)+8)
	all = append(all, r.Interests...)
	all = append(all, r.Taste.All()...)
	if len(all) > MaxPreferences {
		all = all[:MaxPreferences]
	}
	return all
}

// LocationOrDefault returns the location, or DefaultLocation when blank.
func (r Request) LocationOrDefault() string {
	if strings.TrimSpace(r.Location) == "" {
		return DefaultLocation
	}
	return r.Location
}

// Recommendation is one item returned by the insights service.
type Recommendation struct {
	ItemID      string
	Name        string
	Description string
	Category    string
	PriceRange  string
	Score       float64
}

var baseIdeas = []DateIdea{
	{Title: "Artisan Coffee Tasting", Description: "Explore specialty coffee roasts and brewing methods at a local roastery", Category: "Food & Culture", Duration: "1-2 hours", Cost: CostLow},
	{Title: "Sunset Photography Walk", Description: "Capture golden hour moments while exploring scenic city spots", Category: "Creative & Outdoor", Duration: "2-3 hours", Cost: CostFree},
	{Title: "Interactive Art Gallery", Description: "Experience contemporary art installations and discuss your interpretations", Category: ArtsCulture, Duration: "2-3 hours", Cost: CostMid},
	{Title: "Cooking Class Adventure", Description: "Learn to prepare a new cuisine together with hands-on instruction", Category: "Food & Learning", Duration: "3 hours", Cost: CostHigh},
	{Title: "Vintage Market Exploration", Description: "Hunt for unique treasures and vintage finds at local markets", Category: "Shopping & Culture", Duration: "2-4 hours", Cost: CostLow},
	{Title: "Rooftop Stargazing", Description: "Watch the city lights while identifying constellations together", Category: "Romantic & Outdoor", Duration: "2-3 hours", Cost: CostFree},
}

var (
	musicIdea = DateIdea{Title: "Live Music Discovery", Description: "Find your new favorite band at an intimate venue", Category: MusicEntertainment, Duration: "3-4 hours", Cost: CostMid}
	booksIdea = DateIdea{Title: "Literary Cafe Experience", Description: "Browse books while enjoying specialty drinks in a cozy bookstore cafe", Category: "Books & Culture", Duration: "1-2 hours", Cost: CostLow}
)

// Fallback returns the catalogue ideas. A "Music" interest puts the live
// music idea up front and "Books" puts the literary cafe ahead of that.
// Interest tags are matched exactly.
func Fallback(r taste.Rand, interests []string) []DateIdea {
	ideas := slices.Clone(baseIdeas)
	if slices.Contains(interests, "Music") {
		ideas = append([]DateIdea{musicIdea}, ideas...)
	}
	if slices.Contains(interests, "Books") {
		ideas = append([]DateIdea{booksIdea}, ideas...)
	}
	ideas = ideas[:MaxIdeas]
	for i := range ideas {
		ideas[i].ID = fmt.Sprintf("fallback-%d", i+1)
		ideas[i].VibeMatch = minFallbackVibe + r.IntN(fallbackVibeLen)
	}
	return ideas
}

// FromRecommendations maps up to MaxIdeas recommendations to date ideas.
func FromRecommendations(r taste.Rand, recs []Recommendation) []DateIdea {
	if len(recs) > MaxIdeas {
		recs = recs[:MaxIdeas]
	}
	out := make([]DateIdea, 0, len(recs))
	for i, rec := range recs {
		category := Category(rec.Name, rec.Category)
		id := rec.ItemID
		if id == "" {
			id = fmt.Sprint(i)
		}
		desc := rec.Description
		if desc == "" {
			desc = Description(r, category)
		}
		out = append(out, DateIdea{
			ID:          "qloo-" + id,
			Title:       rec.Name,
			Description: desc,
			Category:    category,
			Duration:    Duration(category),
			Cost:        Cost(r, category, rec.PriceRange),
			VibeMatch:   max(minInsightVibe, int(math.Round(rec.Score*100))),
		})
	}
	return out
}

// Category derives a date category from the item's own category, falling
// back to keywords in its name.
func Category(name, itemCategory string) string {
	switch strings.ToLower(itemCategory) {
	case "restaurants", "food":
		return FoodDining
	case "activities", "entertainment":
		return ActivitiesFun
	case "events":
		return EventsCulture
	}

	n := strings.ToLower(name)
	containsAny := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(n, w) {
				return true
			}
		}
		return false
	}
	switch {
	case containsAny("restaurant", "cafe", "bar"):
		return FoodDining
	case containsAny("museum", "gallery", "theater"):
		return ArtsCulture
	case containsAny("park", "outdoor", "hike"):
		return OutdoorAdventure
	case containsAny("music", "concert", "show"):
		return MusicEntertainment
	default:
		return ActivitiesFun
	}
}

// Cost reads the price range when it is known, otherwise draws from the
// category's usual band.
func Cost(r taste.Rand, category, priceRange string) string {
	switch strings.ToLower(priceRange) {
	case "free", "0":
		return CostFree
	case "low", "1":
		return CostLow
	case "medium", "2":
		return CostMid
	case "high", "3", "4":
		return CostHigh
	}

	// r.IntN(10) < k is true with probability k/10.
	switch category {
	case OutdoorAdventure:
		if r.IntN(10) < 5 {
			return CostFree
		}
		return CostLow
	case FoodDining:
		if r.IntN(10) < 7 {
			return CostMid
		}
		return CostHigh
	case ArtsCulture:
		if r.IntN(10) < 6 {
			return CostLow
		}
		return CostMid
	default:
		return CostMid
	}
}

// Duration is the typical length of a date in category.
func Duration(category string) string {
	switch category {
	case FoodDining:
		return "1-2 hours"
	case ArtsCulture:
		return "2-3 hours"
	case OutdoorAdventure:
		return "3-4 hours"
	case MusicEntertainment:
		return "2-4 hours"
	default:
		return "1-3 hours"
	}
}

var descriptions = map[string][]string{
	FoodDining: {
		"Enjoy a delicious meal together in a cozy atmosphere",
		"Discover new flavors and share your favorite dishes",
		"Perfect spot for intimate conversation over great food",
	},
	ArtsCulture: {
		"Immerse yourselves in art and culture together",
		"Explore creativity and spark meaningful conversations",
		"Discover new perspectives through shared cultural experiences",
	},
	OutdoorAdventure: {
		"Get active together while enjoying the great outdoors",
		"Create memories through shared adventure and exploration",
		"Perfect for couples who love nature and physical activities",
	},
	MusicEntertainment: {
		"Experience live entertainment and create lasting memories",
		"Enjoy music and performances in a vibrant atmosphere",
		"Perfect for music lovers and entertainment enthusiasts",
	},
}

// Description picks a template sentence for category. Unknown categories use
// the dining templates.
func Description(r taste.Rand, category string) string {
	options, ok := descriptions[category]
	if !ok {
		options = descriptions[FoodDining]
	}
	return options[r.IntN(len(options))]
}
