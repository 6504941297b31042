package taste

// Level is an ordinal depth of a nuance. It only selects wording.
type Level string

// Nuance levels, shallow to deep.
const (
	Surface  Level = "surface"
	Deep     Level = "deep"
	Profound Level = "profound"
)

// Category labels. Each literal-overlap category has a style-cluster twin.
const (
	FilmAppreciation       = "Film Appreciation"
	CinematicSensibilities = "Cinematic Sensibilities"
	MusicalConnection      = "Musical Connection"
	MusicalWavelength      = "Musical Wavelength"
	LiteraryKinship        = "Literary Kinship"
	LiteraryResonance      = "Literary Resonance"
	LifestyleHarmony       = "Lifestyle Harmony"
	PersonalitySynergy     = "Personality Synergy"
)

// Nuance is one qualitative finding about a profile pair.
type Nuance struct {
	Category    string   `json:"category"`
	SharedItems []string `json:"sharedItems"`
	Description string   `json:"description"`
	Level       Level    `json:"nuanceLevel"`
	Examples    []string `json:"examples"`
}

// literalLevel maps an overlap size to a level using the media thresholds.
func literalLevel(n int) Level {
	switch {
	case n >= 3:
		return Profound
	case n >= 2:
		return Deep
	default:
		return Surface
	}
}

// interestLevel maps a shared-interest count to a level.
func interestLevel(n int) Level {
	switch {
	case n >= 4:
		return Profound
	case n >= 2:
		return Deep
	default:
		return Surface
	}
}
