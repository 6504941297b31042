package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/vibecheck/internal/adapters/auth"
	"github.com/okian/vibecheck/internal/adapters/http/api"
	"github.com/okian/vibecheck/internal/adapters/http/swagger"
	service "github.com/okian/vibecheck/internal/app"
	"github.com/okian/vibecheck/internal/config"
	"github.com/okian/vibecheck/pkg/logger"
)

func TestBuild(t *testing.T) {
	convey.Convey("Given the default config", t, func() {
		_ = logger.Init()
		log := logger.Get()
		ctx := context.Background()
		cfg := config.New()

		convey.Convey("When building dependencies", func() {
			d, err := build(ctx, cfg, log)
			convey.So(err, convey.ShouldBeNil)
			defer d.close(log)

			convey.Convey("Then in-memory backends and the static verifier are chosen", func() {
				convey.So(d.store, convey.ShouldNotBeNil)
				convey.So(d.likes, convey.ShouldNotBeNil)
				convey.So(d.insights, convey.ShouldBeNil)
				convey.So(d.clusters, convey.ShouldBeNil)
				_, ok := d.verifier.(auth.StaticVerifier)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(d.db, convey.ShouldBeNil)
				convey.So(d.nc, convey.ShouldBeNil)
			})

			convey.Convey("Then the options produce a working service", func() {
				svc := service.New(d.options(cfg, log)...)
				convey.So(svc.GetStats().Divisor, convey.ShouldEqual, "fixed")
			})
		})

		convey.Convey("When remote collaborators are configured", func() {
			cfg.InsightsURL = "http://insights.local"
			cfg.AuthURL = "http://auth.local"
			cfg.ScoreDivisor = config.DivisorEvaluated
			d, err := build(ctx, cfg, log)
			convey.So(err, convey.ShouldBeNil)
			defer d.close(log)

			convey.Convey("Then their clients are wired", func() {
				convey.So(d.insights, convey.ShouldNotBeNil)
				_, ok := d.verifier.(*auth.RemoteVerifier)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(string(d.scorer.Policy()), convey.ShouldEqual, config.DivisorEvaluated)
			})
		})

		convey.Convey("When a clusters file is configured", func() {
			path := filepath.Join(t.TempDir(), "clusters.yaml")
			body := "version: 3\nmovies:\n  - name: nordic noir\n    keywords: [wallander, the bridge]\n"
			convey.So(os.WriteFile(path, []byte(body), 0o600), convey.ShouldBeNil)
			cfg.ClustersFile = path

			d, err := build(ctx, cfg, log)
			convey.So(err, convey.ShouldBeNil)
			defer d.close(log)

			convey.Convey("Then the service reports its version", func() {
				convey.So(d.clusters, convey.ShouldNotBeNil)
				svc := service.New(d.options(cfg, log)...)
				convey.So(svc.GetStats().Clusters, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When the clusters file is missing", func() {
			cfg.ClustersFile = filepath.Join(t.TempDir(), "nope.yaml")
			_, err := build(ctx, cfg, log)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the match policy is unknown", func() {
			cfg.MatchPolicy = "coin_flip"
			_, err := build(ctx, cfg, log)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestServerRoutes(t *testing.T) {
	convey.Convey("Given a fully wired server", t, func() {
		_ = logger.Init()
		log := logger.Get()
		ctx := context.Background()
		cfg := config.New()
		d, err := build(ctx, cfg, log)
		convey.So(err, convey.ShouldBeNil)
		defer d.close(log)

		svc := service.New(d.options(cfg, log)...)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		mux := http.NewServeMux()
		swagger.Register(mux)
		api.NewServer(svc, d.verifier).Register(mux)
		ts := httptest.NewServer(mux)
		defer ts.Close()

		do := func(method, path, token string, body any) *http.Response {
			var buf bytes.Buffer
			if body != nil {
				_ = json.NewEncoder(&buf).Encode(body)
			}
			req, _ := http.NewRequest(method, ts.URL+path, &buf)
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			resp, err := http.DefaultClient.Do(req)
			convey.So(err, convey.ShouldBeNil)
			return resp
		}

		convey.Convey("When two users create profiles and evaluate each other", func() {
			alice, bob := uuid.NewString(), uuid.NewString()
			for _, u := range []struct {
				id   string
				name string
			}{{alice, "Alice"}, {bob, "Bob"}} {
				resp := do(http.MethodPost, "/api/profiles", u.id, map[string]any{
					"name":      u.name,
					"age":       29,
					"interests": []string{"Hiking", "Coffee"},
					"tastePreferences": map[string]any{
						"movies": []string{"Inception"},
					},
				})
				_ = resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusCreated)
			}

			resp := do(http.MethodPost, "/api/profiles/process-match", alice, map[string]string{"targetId": bob})
			defer resp.Body.Close()

			convey.Convey("Then the result carries a score and nuances", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				var out struct {
					CompatibilityScore int              `json:"compatibilityScore"`
					IsMatch            bool             `json:"isMatch"`
					Nuances            []map[string]any `json:"nuances"`
				}
				convey.So(json.NewDecoder(resp.Body).Decode(&out), convey.ShouldBeNil)
				convey.So(out.CompatibilityScore, convey.ShouldBeGreaterThan, 0)
				convey.So(out.IsMatch, convey.ShouldBeTrue)
				convey.So(out.Nuances, convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When fetching the docs and metrics", func() {
			docs := do(http.MethodGet, "/openapi.yaml", "", nil)
			_ = docs.Body.Close()
			health := do(http.MethodGet, "/healthz", "", nil)
			_ = health.Body.Close()

			convey.Convey("Then both are public", func() {
				convey.So(docs.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(health.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the metrics updaters", t, func() {
		convey.Convey("Then one-shot updates do not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() {
				updateQueueMetrics(service.Stats{QueueLength: 3, QueueSize: 10, Workers: 2})
			}, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loops return once the context ends", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{}, 2)
			go func() { startSystemMetricsUpdater(ctx); done <- struct{}{} }()
			go func() { startQueueMetricsUpdater(ctx, service.New()); done <- struct{}{} }()
			cancel()
			for i := 0; i < 2; i++ {
				select {
				case <-done:
				case <-time.After(time.Second):
					convey.So("updater still running", convey.ShouldBeEmpty)
				}
			}
		})
	})
}
