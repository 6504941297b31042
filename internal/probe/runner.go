package probe

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/vibecheck/pkg/logger"
)

const (
	minProfiles = 2
	percent     = 100
)

var errConfig = errors.New("invalid probe config")

// Run seeds profiles, evaluates random pairs and returns the statistics.
// It fails when the service is unreachable or no profile could be seeded;
// per-request failures are counted instead.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.Profiles < minProfiles {
		return nil, fmt.Errorf("%w: need at least %d profiles, got %d", errConfig, minProfiles, cfg.Profiles)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	log := logger.Named("probe")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting vibecheck probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("profiles", cfg.Profiles),
		logger.Int("pairs", cfg.Pairs),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	c := newClient(cfg.BaseURL, cfg.Timeout)
	if err := c.health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	gen := newGenerator(cfg.Seed)
	ids := seed(ctx, cfg, c, gen, stats, log)
	if len(ids) < minProfiles {
		return stats, fmt.Errorf("seeded %d of %d profiles", len(ids), cfg.Profiles)
	}
	if cfg.Cleanup {
		defer cleanup(c, ids, log)
	}

	evaluate(ctx, cfg, c, gen, ids, stats, log)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	report(ctx, stats, log)
	return stats, nil
}

// seed creates cfg.Profiles profiles and returns the ids that succeeded.
func seed(ctx context.Context, cfg *Config, c *client, gen *generator, stats *Stats, log logger.Logger) []string {
	ids := gen.ids(cfg.Profiles)
	payloads := make([]profilePayload, len(ids))
	for i := range payloads {
		payloads[i] = gen.profile(i)
	}

	ok := make([]bool, len(ids))
	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for i, id := range ids {
		g.Go(func() error {
			if err := c.createProfile(ctx, id, payloads[i]); err != nil {
				if cfg.Verbose {
					log.Warn(ctx, "create profile failed", logger.String("id", id), logger.Error(err))
				}
				return nil
			}
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	created := make([]string, 0, len(ids))
	for i, id := range ids {
		if ok[i] {
			created = append(created, id)
		}
	}
	stats.ProfilesCreated = len(created)
	stats.ProfilesFailed = len(ids) - len(created)
	log.Info(ctx, "seeded profiles", logger.Int("created", stats.ProfilesCreated), logger.Int("failed", stats.ProfilesFailed))
	return created
}

// evaluate runs cfg.Pairs evaluations over random distinct pairs of ids.
func evaluate(ctx context.Context, cfg *Config, c *client, gen *generator, ids []string, stats *Stats, log logger.Logger) {
	type pair struct{ a, b string }
	pairs := make([]pair, cfg.Pairs)
	for i := range pairs {
		a, b := gen.pair(len(ids))
		pairs[i] = pair{ids[a], ids[b]}
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(cfg.Workers)
	for _, p := range pairs {
		g.Go(func() error {
			start := time.Now()
			res, err := c.evaluate(ctx, p.a, p.b)
			elapsed := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Failures++
				if cfg.Verbose {
					log.Warn(ctx, "evaluation failed", logger.String("caller", p.a), logger.String("target", p.b), logger.Error(err))
				}
				return nil
			}
			stats.Evaluations++
			stats.ScoreSum += res.CompatibilityScore
			stats.Latencies = append(stats.Latencies, elapsed)
			if res.IsMatch {
				stats.Matches++
			}
			if problems := verify(res, p.a, p.b); len(problems) > 0 {
				stats.Violations++
				log.Warn(ctx, "evaluation result failed checks", logger.String("caller", p.a), logger.Strings("problems", problems))
			}
			return nil
		})
	}
	_ = g.Wait()
}

func cleanup(c *client, ids []string, log logger.Logger) {
	ctx := context.Background()
	failed := 0
	for _, id := range ids {
		if err := c.deleteProfile(ctx, id); err != nil {
			failed++
		}
	}
	log.Info(ctx, "removed seeded profiles", logger.Int("removed", len(ids)-failed), logger.Int("failed", failed))
}

// percentile returns the p-th percentile of sorted latencies.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	i := (len(sorted) - 1) * p / percent
	return sorted[i]
}

func report(ctx context.Context, stats *Stats, log logger.Logger) {
	lat := slices.Clone(stats.Latencies)
	slices.Sort(lat)

	var matchRate, perSecond float64
	if stats.Evaluations > 0 {
		matchRate = float64(stats.Matches) / float64(stats.Evaluations) * percent
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Evaluations) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("profilesCreated", stats.ProfilesCreated),
		logger.Int("profilesFailed", stats.ProfilesFailed),
		logger.Int("evaluations", stats.Evaluations),
		logger.Int("matches", stats.Matches),
		logger.Int("failures", stats.Failures),
		logger.Int("violations", stats.Violations),
		logger.Float64("meanScore", stats.MeanScore()),
		logger.Float64("matchRate", matchRate),
		logger.Duration("p50", percentile(lat, 50)),
		logger.Duration("p95", percentile(lat, 95)),
		logger.Duration("p99", percentile(lat, 99)),
		logger.Duration("duration", stats.Duration),
		logger.Float64("evaluationsPerSecond", perSecond))
}
