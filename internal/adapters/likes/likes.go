// Package likes records one-directional likes between profiles and decides
// whether an evaluated pair counts as a match.
package likes

import (
	"context"
	"errors"
	"sync"
)

// ErrSelfLike is returned when a profile likes itself.
var ErrSelfLike = errors.New("cannot like own profile")

// Store records likes.
type Store interface {
	// Like records that from likes to. Repeating a like is a no-op.
	Like(ctx context.Context, from, to string) error
	// Likes reports whether from likes to.
	Likes(ctx context.Context, from, to string) (bool, error)
	// Forget drops every like made by id.
	Forget(ctx context.Context, id string) error
}

// MemoryStore keeps likes in a set per profile.
type MemoryStore struct {
	mu    sync.RWMutex
	liked map[string]map[string]struct{}
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{liked: make(map[string]map[string]struct{})}
}

// Like implements Store.
func (s *MemoryStore) Like(ctx context.Context, from, to string) error {
	if from == to {
		return ErrSelfLike
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.liked[from]
	if !ok {
		set = make(map[string]struct{})
		s.liked[from] = set
	}
	set[to] = struct{}{}
	return nil
}

// Likes implements Store.
func (s *MemoryStore) Likes(ctx context.Context, from, to string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.liked[from][to]
	return ok, nil
}

// Forget implements Store.
func (s *MemoryStore) Forget(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.liked, id)
	s.mu.Unlock()
	return nil
}
