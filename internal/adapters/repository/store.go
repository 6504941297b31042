// Package repository defines the profile store interface and its memory and
// PostgreSQL implementations.
package repository

import (
	"context"

	"github.com/okian/vibecheck/internal/domain/profile"
)

// ListFilter narrows a profile listing. Zero ages mean no bound.
type ListFilter struct {
	ExcludeID string
	Limit     int
	Offset    int
	MinAge    int
	MaxAge    int
}

func (f ListFilter) matches(p profile.Profile) bool {
	if f.ExcludeID != "" && p.ID == f.ExcludeID {
		return false
	}
	if f.MinAge > 0 && p.Age < f.MinAge {
		return false
	}
	if f.MaxAge > 0 && p.Age > f.MaxAge {
		return false
	}
	return true
}

// Store provides read/write access to profiles keyed by id.
type Store interface {
	// Get returns the profile or ErrNotFound.
	Get(ctx context.Context, id string) (profile.Profile, error)

	// Create stores a new profile and stamps its timestamps.
	// Returns ErrConflict if the id is taken.
	Create(ctx context.Context, p profile.Profile) (profile.Profile, error)

	// Update replaces an existing profile and bumps UpdatedAt.
	// Returns ErrNotFound if the id is unknown.
	Update(ctx context.Context, p profile.Profile) (profile.Profile, error)

	// Delete removes a profile. Returns ErrNotFound if the id is unknown.
	Delete(ctx context.Context, id string) error

	// List returns profiles ordered by creation time, then id.
	List(ctx context.Context, f ListFilter) ([]profile.Profile, error)
}
