package likes

import (
	"context"
	"fmt"
	"strings"
)

// Policy names.
const (
	PolicyAlways     = "always"
	PolicyMutualLike = "mutual_like"
)

// MatchPolicy decides whether an evaluated pair is a match.
type MatchPolicy interface {
	IsMatch(ctx context.Context, a, b string) (bool, error)
}

// MatchPolicyFunc adapts a function to MatchPolicy.
type MatchPolicyFunc func(ctx context.Context, a, b string) (bool, error)

// IsMatch implements MatchPolicy.
func (f MatchPolicyFunc) IsMatch(ctx context.Context, a, b string) (bool, error) {
	return f(ctx, a, b)
}

// Always treats every evaluated pair as a match.
var Always MatchPolicy = MatchPolicyFunc(func(context.Context, string, string) (bool, error) {
	return true, nil
})

// MutualLike matches a pair only when each side likes the other.
type MutualLike struct {
	store Store
}

// NewMutualLike creates a MutualLike policy over store.
func NewMutualLike(store Store) *MutualLike {
	return &MutualLike{store: store}
}

// IsMatch implements MatchPolicy.
func (m *MutualLike) IsMatch(ctx context.Context, a, b string) (bool, error) {
	ab, err := m.store.Likes(ctx, a, b)
	if err != nil || !ab {
		return false, err
	}
	return m.store.Likes(ctx, b, a)
}

// NewPolicy returns the policy called name. A mutual-like policy needs store.
func NewPolicy(name string, store Store) (MatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyAlways:
		return Always, nil
	case PolicyMutualLike:
		if store == nil {
			return nil, fmt.Errorf("match policy %q requires a likes store", name)
		}
		return NewMutualLike(store), nil
	default:
		return nil, fmt.Errorf("unknown match policy %q", name)
	}
}
