package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/vibecheck/internal/probe"
	"github.com/okian/vibecheck/pkg/logger"
)

const (
	defaultProfiles = 200
	defaultPairs    = 5000
	defaultWorkers  = 2 // multiplier for runtime.NumCPU()
	defaultTimeout  = 10 * time.Second
	runTimeout      = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		profiles = flag.Int("profiles", defaultProfiles, "Number of profiles to seed")
		pairs    = flag.Int("pairs", defaultPairs, "Number of match evaluations to run")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed     = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for profile and pair generation")
		cleanup  = flag.Bool("cleanup", false, "Delete seeded profiles when done")
		format   = flag.String("log-format", "text", "Log format: text or json")
		verbose  = flag.Bool("verbose", false, "Log every failed request")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*format)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	os.Exit(run(&probe.Config{
		BaseURL:  *baseURL,
		Profiles: *profiles,
		Pairs:    *pairs,
		Workers:  *workers,
		Timeout:  *timeout,
		Seed:     *seed,
		Cleanup:  *cleanup,
		Verbose:  *verbose,
	}))
}

// run returns the process exit code: 1 when the probe fails, 2 when some
// evaluation result failed its checks.
func run(cfg *probe.Config) int {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	stats, err := probe.Run(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("probe failed: " + err.Error() + "\n")
		return 1
	}
	if stats.Violations > 0 {
		return 2
	}
	return 0
}
