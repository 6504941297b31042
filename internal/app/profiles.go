package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/okian/vibecheck/internal/adapters/likes"
	"github.com/okian/vibecheck/internal/adapters/repository"
	"github.com/okian/vibecheck/internal/domain/profile"
	"github.com/okian/vibecheck/pkg/logger"
)

// Profile field limits.
const (
	MaxNameLen     = 50
	MaxBioLen      = 500
	MaxInterestLen = 30
	MinAge         = 18
	MaxAge         = 100
)

// ProfileInput is a create request or a partial update. Nil fields are left
// unchanged on update; Name and Age are required on create.
type ProfileInput struct {
	Name        *string              `json:"name,omitempty"`
	Age         *int                 `json:"age,omitempty"`
	Bio         *string              `json:"bio,omitempty"`
	Photos      *[]string            `json:"photos,omitempty"`
	Interests   *[]string            `json:"interests,omitempty"`
	Personality *profile.Personality `json:"personality,omitempty"`
	Taste       *profile.Taste       `json:"tastePreferences,omitempty"`
	CurrentVibe *profile.Vibe        `json:"currentVibe,omitempty"`
}

// ListQuery pages through other users' profiles.
type ListQuery struct {
	Limit  int
	Offset int
	MinAge int
	MaxAge int
}

// CreateProfile stores the caller's profile. It fails with ErrConflict if the
// caller already has one.
func (s *Service) CreateProfile(ctx context.Context, callerID string, in ProfileInput) (profile.Profile, error) { //nolint:gocritic // hugeParam: input decoded per request
	if err := validateID(callerID); err != nil {
		return profile.Profile{}, err
	}
	if in.Name == nil || in.Age == nil {
		return profile.Profile{}, fmt.Errorf("%w: name and age are required", ErrInvalidInput)
	}

	p := profile.Profile{ID: callerID}
	if err := s.apply(&p, in); err != nil {
		return profile.Profile{}, err
	}
	created, err := s.store.Create(ctx, p)
	if err != nil {
		return profile.Profile{}, storeError("create profile", err)
	}
	s.logger.Debug(ctx, "profile created", logger.String("profileID", created.ID))
	return created, nil
}

// GetProfile returns a profile by id.
func (s *Service) GetProfile(ctx context.Context, id string) (profile.Profile, error) {
	if err := validateID(id); err != nil {
		return profile.Profile{}, err
	}
	return s.fetch(ctx, id)
}

// UpdateProfile applies the provided fields to the caller's profile.
func (s *Service) UpdateProfile(ctx context.Context, callerID string, patch ProfileInput) (profile.Profile, error) { //nolint:gocritic // hugeParam: input decoded per request
	p, err := s.GetProfile(ctx, callerID)
	if err != nil {
		return profile.Profile{}, err
	}
	if err := s.apply(&p, patch); err != nil {
		return profile.Profile{}, err
	}
	updated, err := s.store.Update(ctx, p)
	if err != nil {
		return profile.Profile{}, storeError("update profile", err)
	}
	return updated, nil
}

// DeleteProfile removes the caller's profile and the likes it made.
func (s *Service) DeleteProfile(ctx context.Context, callerID string) error {
	if err := validateID(callerID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, callerID); err != nil {
		return storeError("delete profile", err)
	}
	if err := s.likes.Forget(ctx, callerID); err != nil {
		s.logger.Warn(ctx, "failed to forget likes", logger.String("profileID", callerID), logger.Error(err))
	}
	return nil
}

// ListProfiles returns profiles other than the caller's, oldest first.
func (s *Service) ListProfiles(ctx context.Context, callerID string, q ListQuery) ([]profile.Profile, error) {
	if err := validateID(callerID); err != nil {
		return nil, err
	}
	switch {
	case q.Limit < 0 || q.Offset < 0:
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	case q.MinAge < 0 || q.MaxAge < 0:
		return nil, fmt.Errorf("%w: age bounds must not be negative", ErrInvalidInput)
	case q.MaxAge > 0 && q.MinAge > q.MaxAge:
		return nil, fmt.Errorf("%w: minAge exceeds maxAge", ErrInvalidInput)
	}

	limit := q.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	limit = min(limit, s.maxLimit)

	out, err := s.store.List(ctx, repository.ListFilter{
		ExcludeID: callerID,
		Limit:     limit,
		Offset:    q.Offset,
		MinAge:    q.MinAge,
		MaxAge:    q.MaxAge,
	})
	if err != nil {
		return nil, storeError("list profiles", err)
	}
	return out, nil
}

// Like records that the caller likes target. It reports whether target
// already likes the caller back.
func (s *Service) Like(ctx context.Context, callerID, targetID string) (bool, error) {
	if err := validateID(callerID); err != nil {
		return false, err
	}
	if err := validateID(targetID); err != nil {
		return false, err
	}
	if _, err := s.fetch(ctx, targetID); err != nil {
		return false, err
	}
	if err := s.likes.Like(ctx, callerID, targetID); err != nil {
		if errors.Is(err, likes.ErrSelfLike) {
			return false, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return false, fmt.Errorf("%w: record like: %w", ErrUnavailable, err)
	}
	mutual, err := s.likes.Likes(ctx, targetID, callerID)
	if err != nil {
		return false, fmt.Errorf("%w: read like: %w", ErrUnavailable, err)
	}
	return mutual, nil
}

// apply validates in and copies the provided fields onto p.
func (s *Service) apply(p *profile.Profile, in ProfileInput) error { //nolint:gocritic // hugeParam: input decoded per request
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if n := utf8.RuneCountInString(name); n < 1 || n > MaxNameLen {
			return fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidInput, MaxNameLen)
		}
		p.Name = name
	}
	if in.Age != nil {
		if *in.Age < MinAge || *in.Age > MaxAge {
			return fmt.Errorf("%w: age must be between %d and %d", ErrInvalidInput, MinAge, MaxAge)
		}
		p.Age = *in.Age
	}
	if in.Bio != nil {
		if utf8.RuneCountInString(*in.Bio) > MaxBioLen {
			return fmt.Errorf("%w: bio must be at most %d characters", ErrInvalidInput, MaxBioLen)
		}
		p.Bio = *in.Bio
	}
	if in.Photos != nil {
		for _, raw := range *in.Photos {
			if !isWebURL(raw) {
				return fmt.Errorf("%w: photo %q is not an http(s) URL", ErrInvalidInput, raw)
			}
		}
		p.Photos = append([]string{}, *in.Photos...)
	}
	if in.Interests != nil {
		interests := make([]string, 0, len(*in.Interests))
		for _, raw := range *in.Interests {
			tag := strings.TrimSpace(raw)
			if n := utf8.RuneCountInString(tag); n < 1 || n > MaxInterestLen {
				return fmt.Errorf("%w: interest %q must be 1-%d characters", ErrInvalidInput, raw, MaxInterestLen)
			}
			interests = append(interests, tag)
		}
		p.Interests = interests
	}
	if in.Personality != nil {
		if err := validatePersonality(*in.Personality); err != nil {
			return err
		}
		p.Personality = in.Personality.Clamped()
	}
	if in.Taste != nil {
		p.Taste = *in.Taste
	}
	if in.CurrentVibe != nil {
		v := *in.CurrentVibe
		if !profile.ValidVibeType(v.Type) {
			return fmt.Errorf("%w: vibe type %q", ErrInvalidInput, v.Type)
		}
		if strings.TrimSpace(v.Content) == "" {
			return fmt.Errorf("%w: vibe content is required", ErrInvalidInput)
		}
		if v.Timestamp.IsZero() {
			v.Timestamp = s.now().UTC()
		}
		p.CurrentVibe = &v
	}
	return nil
}

func validatePersonality(pers profile.Personality) error {
	for _, t := range profile.Traits {
		v := pers.Value(t)
		if math.IsNaN(v) || v < profile.MinTrait || v > profile.MaxTrait {
			return fmt.Errorf("%w: %s must be between 0 and 100", ErrInvalidInput, t)
		}
	}
	return nil
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// storeError maps repository errors onto service errors.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, op)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %s", ErrConflict, op)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
	}
}
