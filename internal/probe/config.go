// Package probe drives a running vibecheck server with synthetic profiles
// and match evaluations, then reports throughput and result sanity.
package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Profiles int           // Number of profiles to seed
	Pairs    int           // Number of match evaluations to run
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Seed     uint64        // Seed for profile and pair generation
	Cleanup  bool          // Delete seeded profiles afterwards
	Verbose  bool          // Log every failed request
}

// Stats holds probe statistics.
type Stats struct {
	ProfilesCreated int
	ProfilesFailed  int
	Evaluations     int
	Matches         int
	Failures        int
	Violations      int
	ScoreSum        int
	Latencies       []time.Duration
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// MeanScore returns the average compatibility score of successful
// evaluations.
func (s *Stats) MeanScore() float64 {
	if s.Evaluations == 0 {
		return 0
	}
	return float64(s.ScoreSum) / float64(s.Evaluations)
}

// profilePayload is the body of POST /api/profiles.
type profilePayload struct {
	Name        string         `json:"name"`
	Age         int            `json:"age"`
	Bio         string         `json:"bio,omitempty"`
	Interests   []string       `json:"interests"`
	Taste       tastePayload   `json:"tastePreferences"`
	Personality map[string]int `json:"personality,omitempty"`
}

type tastePayload struct {
	Movies []string `json:"movies,omitempty"`
	Music  []string `json:"music,omitempty"`
	Books  []string `json:"books,omitempty"`
	Genres []string `json:"genres,omitempty"`
}

// matchResult is the subset of the process-match response the probe checks.
type matchResult struct {
	ProfileA           string `json:"profileA"`
	ProfileB           string `json:"profileB"`
	CompatibilityScore int    `json:"compatibilityScore"`
	IsMatch            bool   `json:"isMatch"`
	Nuances            []struct {
		Category    string   `json:"category"`
		SharedItems []string `json:"sharedItems"`
		NuanceLevel string   `json:"nuanceLevel"`
	} `json:"nuances"`
}
