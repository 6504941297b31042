package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/vibecheck/internal/adapters/repository"
	"github.com/okian/vibecheck/internal/domain/match"
	"github.com/okian/vibecheck/internal/domain/profile"
	"github.com/okian/vibecheck/internal/domain/scoring"
	"github.com/okian/vibecheck/internal/domain/taste"
	"github.com/okian/vibecheck/pkg/logger"
	"github.com/okian/vibecheck/pkg/metrics"
)

// Evaluation outcomes recorded in metrics.
const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

// EvaluateMatch compares two profiles. Both are fetched before any analysis;
// if either is missing the evaluation fails with ErrNotFound and nothing is
// computed. The nuance list and the score are computed independently.
func (s *Service) EvaluateMatch(ctx context.Context, idA, idB string) (match.Result, error) {
	start := time.Now()
	res, err := s.evaluate(ctx, idA, idB)
	metrics.RecordEvaluationLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordEvaluation(outcomeOf(err))
	if err != nil {
		return match.Result{}, err
	}

	metrics.RecordCompatibilityScore(res.Score)
	for _, n := range res.Nuances {
		metrics.RecordNuance(n.Category, string(n.Level))
	}
	s.publish(ctx, res)
	return res, nil
}

func (s *Service) evaluate(ctx context.Context, idA, idB string) (match.Result, error) {
	if err := validateID(idA); err != nil {
		return match.Result{}, err
	}
	if err := validateID(idB); err != nil {
		return match.Result{}, err
	}
	if idA == idB {
		return match.Result{}, fmt.Errorf("%w: cannot match a profile with itself", ErrInvalidInput)
	}

	pa, pb, err := s.fetchPair(ctx, idA, idB)
	if err != nil {
		return match.Result{}, err
	}

	var (
		nuances   []taste.Nuance
		breakdown scoring.Breakdown
		g         errgroup.Group
	)
	g.Go(func() error {
		nuances = s.analyzer.Aggregate(pa, pb)
		return nil
	})
	g.Go(func() error {
		breakdown = s.scorer.Breakdown(pa, pb)
		return nil
	})
	_ = g.Wait()

	isMatch, err := s.policy.IsMatch(ctx, idA, idB)
	if err != nil {
		return match.Result{}, fmt.Errorf("%w: match policy: %w", ErrUnavailable, err)
	}

	return match.Result{
		ProfileA:  idA,
		ProfileB:  idB,
		Nuances:   nuances,
		Score:     breakdown.Compatibility,
		Breakdown: breakdown,
		IsMatch:   isMatch,
	}, nil
}

// fetchPair loads both profiles concurrently. The first failure cancels the
// other lookup.
func (s *Service) fetchPair(ctx context.Context, idA, idB string) (profile.Profile, profile.Profile, error) {
	var pa, pb profile.Profile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pa, err = s.fetch(gctx, idA)
		return err
	})
	g.Go(func() error {
		var err error
		pb, err = s.fetch(gctx, idB)
		return err
	})
	if err := g.Wait(); err != nil {
		return profile.Profile{}, profile.Profile{}, err
	}
	return pa, pb, nil
}

func (s *Service) fetch(ctx context.Context, id string) (profile.Profile, error) {
	p, err := s.store.Get(ctx, id)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, repository.ErrNotFound):
		return profile.Profile{}, fmt.Errorf("%w: profile %s", ErrNotFound, id)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return profile.Profile{}, err
	default:
		return profile.Profile{}, fmt.Errorf("%w: fetch profile %s: %w", ErrUnavailable, id, err)
	}
}

// publish enqueues the match event without blocking. A full or closed queue
// drops it.
func (s *Service) publish(ctx context.Context, res match.Result) { //nolint:gocritic // hugeParam: result is built once per call
	e := match.NewEvent(s.newID(), res, s.now())
	if !s.queue.Enqueue(ctx, e) {
		s.logger.Warn(ctx, "match event dropped",
			logger.String("eventID", e.EventID),
			logger.Int("queueLength", s.queue.Len()),
		)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrInvalidInput):
		return outcomeInvalid
	case errors.Is(err, ErrNotFound):
		return outcomeNotFound
	default:
		return outcomeError
	}
}

// validateID rejects ids that are not UUIDs.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed profile id %q", ErrInvalidInput, id)
	}
	return nil
}
