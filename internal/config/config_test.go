package config_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/vibecheck/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.ProfileStore, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.LikesStore, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.MatchPolicy, convey.ShouldEqual, config.PolicyAlways)
			convey.So(cfg.ScoreDivisor, convey.ShouldEqual, config.DivisorFixed)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.InsightsTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a valid config", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":              func(c *config.Config) { c.Addr = "" },
			"unknown log format":      func(c *config.Config) { c.LogFormat = "xml" },
			"unknown profile store":   func(c *config.Config) { c.ProfileStore = "sqlite" },
			"postgres without dsn":    func(c *config.Config) { c.ProfileStore = config.StorePostgres },
			"unknown likes store":     func(c *config.Config) { c.LikesStore = "memcached" },
			"redis without addr":      func(c *config.Config) { c.LikesStore = config.StoreRedis },
			"unknown match policy":    func(c *config.Config) { c.MatchPolicy = "sometimes" },
			"unknown divisor":         func(c *config.Config) { c.ScoreDivisor = "adaptive" },
			"insights without key":    func(c *config.Config) { c.InsightsURL = "https://insights.example.com" },
			"zero insights timeout":   func(c *config.Config) { c.InsightsTimeoutMS = 0 },
			"zero queue size":         func(c *config.Config) { c.EventQueueSize = 0 },
			"negative workers":        func(c *config.Config) { c.WorkerCount = -1 },
			"zero max profiles limit": func(c *config.Config) { c.MaxProfilesLimit = 0 },
		}
		for name, mutate := range cases {
			convey.Convey("Then "+name+" is rejected", func() {
				cfg := config.New()
				mutate(cfg)
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("Then complete backend settings pass", func() {
			cfg := config.New()
			cfg.ProfileStore = config.StorePostgres
			cfg.DatabaseURL = "postgres://localhost/vibecheck"
			cfg.LikesStore = config.StoreRedis
			cfg.RedisAddr = "localhost:6379"
			cfg.MatchPolicy = config.PolicyMutualLike
			cfg.ScoreDivisor = config.DivisorEvaluated
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
