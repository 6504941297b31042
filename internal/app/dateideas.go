package service

import (
	"context"

	"github.com/okian/vibecheck/internal/domain/dateideas"
	"github.com/okian/vibecheck/pkg/logger"
	"github.com/okian/vibecheck/pkg/metrics"
)

// Date idea sources.
const (
	SourceInsights = "insights"
	SourceFallback = "fallback"
)

// DateIdeas is the outcome of GenerateDateIdeas.
type DateIdeas struct {
	Ideas  []dateideas.DateIdea `json:"dateIdeas"`
	Source string               `json:"source"`
}

// GenerateDateIdeas suggests dates for the given preferences. When no
// recommender is configured, or it fails or returns nothing, ideas come from
// the catalogue. It never fails because of the recommender.
func (s *Service) GenerateDateIdeas(ctx context.Context, req dateideas.Request) (DateIdeas, error) { //nolint:gocritic // hugeParam: request decoded per call
	if err := ctx.Err(); err != nil {
		return DateIdeas{}, err
	}
	if s.insights != nil {
		recs, err := s.insights.Recommend(ctx, req)
		switch {
		case err != nil:
			s.logger.Warn(ctx, "insights request failed, using fallback", logger.Error(err))
		case len(recs) == 0:
			s.logger.Debug(ctx, "insights returned no results, using fallback")
		default:
			metrics.RecordDateIdeas(SourceInsights)
			return DateIdeas{Ideas: dateideas.FromRecommendations(s.rng, recs), Source: SourceInsights}, nil
		}
	}
	metrics.RecordDateIdeas(SourceFallback)
	return DateIdeas{Ideas: dateideas.Fallback(s.rng, req.Interests), Source: SourceFallback}, nil
}
