package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/okian/vibecheck/internal/domain/profile"
	"github.com/okian/vibecheck/pkg/metrics"
)

// MemoryStore keeps profiles in a map guarded by a RWMutex. Profiles are
// copied on the way in and out so callers never share slices with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]profile.Profile
	opts     options
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryStore{
		profiles: make(map[string]profile.Profile),
		opts:     o,
	}
}

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (profile.Profile, error) {
	defer observe("get", time.Now())
	if err := ctx.Err(); err != nil {
		return profile.Profile{}, fmt.Errorf("get %s: %w", id, err)
	}
	s.mu.RLock()
	p, ok := s.profiles[id]
	s.mu.RUnlock()
	if !ok {
		return profile.Profile{}, ErrNotFound
	}
	return clone(p), nil
}

// Create implements Store.
func (s *MemoryStore) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	defer observe("create", time.Now())
	if err := ctx.Err(); err != nil {
		return profile.Profile{}, fmt.Errorf("create %s: %w", p.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[p.ID]; exists {
		return profile.Profile{}, ErrConflict
	}
	now := s.opts.now().UTC()
	p = clone(p)
	p.CreatedAt, p.UpdatedAt = now, now
	s.profiles[p.ID] = p
	return clone(p), nil
}

// Update implements Store.
func (s *MemoryStore) Update(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	defer observe("update", time.Now())
	if err := ctx.Err(); err != nil {
		return profile.Profile{}, fmt.Errorf("update %s: %w", p.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.profiles[p.ID]
	if !ok {
		return profile.Profile{}, ErrNotFound
	}
	p = clone(p)
	p.CreatedAt = old.CreatedAt
	p.UpdatedAt = s.opts.now().UTC()
	s.profiles[p.ID] = p
	return clone(p), nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	defer observe("delete", time.Now())
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[id]; !ok {
		return ErrNotFound
	}
	delete(s.profiles, id)
	return nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context, f ListFilter) ([]profile.Profile, error) {
	defer observe("list", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	s.mu.RLock()
	matched := make([]profile.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if f.matches(p) {
			matched = append(matched, p)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b profile.Profile) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	if f.Offset >= len(matched) {
		return []profile.Profile{}, nil
	}
	matched = matched[max(f.Offset, 0):]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	out := make([]profile.Profile, len(matched))
	for i, p := range matched {
		out[i] = clone(p)
	}
	return out, nil
}

// Len returns the number of stored profiles.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

func clone(p profile.Profile) profile.Profile {
	p.Photos = slices.Clone(p.Photos)
	p.Interests = slices.Clone(p.Interests)
	p.Taste = profile.Taste{
		Movies:  slices.Clone(p.Taste.Movies),
		Music:   slices.Clone(p.Taste.Music),
		Books:   slices.Clone(p.Taste.Books),
		TVShows: slices.Clone(p.Taste.TVShows),
		Genres:  slices.Clone(p.Taste.Genres),
		Artists: slices.Clone(p.Taste.Artists),
	}
	p.Personality = clonePersonality(p.Personality)
	if p.CurrentVibe != nil {
		v := *p.CurrentVibe
		p.CurrentVibe = &v
	}
	return p
}

func clonePersonality(in profile.Personality) profile.Personality {
	cp := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		return profile.TraitPtr(*v)
	}
	return profile.Personality{
		Openness:          cp(in.Openness),
		Conscientiousness: cp(in.Conscientiousness),
		Extraversion:      cp(in.Extraversion),
		Agreeableness:     cp(in.Agreeableness),
		Neuroticism:       cp(in.Neuroticism),
	}
}
