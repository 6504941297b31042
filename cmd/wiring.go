package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/okian/vibecheck/internal/adapters/auth"
	"github.com/okian/vibecheck/internal/adapters/insights"
	"github.com/okian/vibecheck/internal/adapters/likes"
	"github.com/okian/vibecheck/internal/adapters/mq/notify"
	workerpool "github.com/okian/vibecheck/internal/adapters/mq/worker"
	"github.com/okian/vibecheck/internal/adapters/repository"
	service "github.com/okian/vibecheck/internal/app"
	"github.com/okian/vibecheck/internal/config"
	"github.com/okian/vibecheck/internal/domain/scoring"
	"github.com/okian/vibecheck/internal/domain/taste"
	"github.com/okian/vibecheck/pkg/logger"
)

// dependencies holds the backends chosen by the config and the handles
// that must be released on exit.
type dependencies struct {
	store    repository.Store
	likes    likes.Store
	policy   likes.MatchPolicy
	scorer   *scoring.Scorer
	clusters *taste.ClusterSet
	notifier workerpool.Notifier
	insights service.Insights
	verifier auth.Verifier

	db    *sql.DB
	redis *redis.Client
	nc    *nats.Conn
}

func build(ctx context.Context, cfg *config.Config, log logger.Logger) (d *dependencies, err error) {
	d = &dependencies{}
	defer func() {
		if err != nil {
			d.close(log)
			d = nil
		}
	}()

	switch cfg.ProfileStore {
	case config.StorePostgres:
		d.db, err = repository.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return d, err
		}
		if cfg.MigrateOnStart {
			if err = repository.Migrate(d.db); err != nil {
				return d, err
			}
			log.Info(ctx, "schema migrated")
		}
		d.store = repository.NewPostgresStore(d.db)
	default:
		d.store = repository.NewMemoryStore()
	}

	switch cfg.LikesStore {
	case config.StoreRedis:
		d.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err = d.redis.Ping(ctx).Err(); err != nil {
			return d, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		d.likes = likes.NewRedisStore(d.redis)
	default:
		d.likes = likes.NewMemoryStore()
	}

	if d.policy, err = likes.NewPolicy(cfg.MatchPolicy, d.likes); err != nil {
		return d, err
	}

	divisor, err := scoring.ParseDivisorPolicy(cfg.ScoreDivisor)
	if err != nil {
		return d, err
	}
	d.scorer = scoring.NewScorer(scoring.WithDivisorPolicy(divisor))

	if cfg.ClustersFile != "" {
		cs, err := taste.LoadClusters(cfg.ClustersFile)
		if err != nil {
			return d, err
		}
		d.clusters = &cs
		log.Info(ctx, "loaded keyword clusters", logger.String("file", cfg.ClustersFile), logger.Int("version", cs.Version))
	}

	if cfg.NATSURL != "" {
		d.nc, err = notify.Connect(notify.DefaultNATSConfig(cfg.NATSURL), log.Named("nats"))
		if err != nil {
			return d, err
		}
		d.notifier = notify.NewNATSNotifier(d.nc)
	} else {
		d.notifier = notify.NewLogNotifier(log.Named("events"))
	}

	if cfg.InsightsURL != "" {
		d.insights = insights.NewClient(cfg.InsightsURL, cfg.InsightsAPIKey, insights.WithTimeout(cfg.InsightsTimeout()))
	}

	if cfg.AuthURL != "" {
		d.verifier = auth.NewRemoteVerifier(cfg.AuthURL, cfg.AuthAPIKey, nil)
	} else {
		log.Warn(ctx, "auth_url not set; bearer tokens are taken as profile ids")
		d.verifier = auth.StaticVerifier{}
	}
	return d, nil
}

// options turns the dependencies into service options.
func (d *dependencies) options(cfg *config.Config, log logger.Logger) []service.Option {
	opts := []service.Option{
		service.WithLogger(log),
		service.WithStore(d.store),
		service.WithLikes(d.likes),
		service.WithMatchPolicy(d.policy),
		service.WithScorer(d.scorer),
		service.WithNotifier(d.notifier),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.EventQueueSize),
		service.WithMaxListLimit(cfg.MaxProfilesLimit),
	}
	if d.clusters != nil {
		opts = append(opts, service.WithClusters(*d.clusters))
	}
	if d.insights != nil {
		opts = append(opts, service.WithInsights(d.insights))
	}
	return opts
}

// close releases connections in reverse order of opening. NATS is drained
// so buffered publishes reach the server.
func (d *dependencies) close(log logger.Logger) {
	ctx := context.Background()
	if d.nc != nil {
		if err := d.nc.Drain(); err != nil {
			log.Warn(ctx, "nats drain failed", logger.Error(err))
		}
	}
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			log.Warn(ctx, "redis close failed", logger.Error(err))
		}
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			log.Warn(ctx, "postgres close failed", logger.Error(err))
		}
	}
}
