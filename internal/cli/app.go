package cli

import (
	"os"

	"go.uber.org/zap"

	"github.com/ppiankov/stylometer/internal/fetch"
	"github.com/ppiankov/stylometer/internal/logging"
	"github.com/ppiankov/stylometer/internal/metrics"
	"github.com/ppiankov/stylometer/internal/model"
	"github.com/ppiankov/stylometer/internal/pipeline"
	"github.com/ppiankov/stylometer/internal/worker"
)

// app holds what every command builds from the merged configuration
type app struct {
	cfg      model.Config
	logger   *zap.Logger
	pipeline *pipeline.Pipeline
	metrics  *metrics.Metrics
}

// newApp loads configuration and wires the pipeline. withMetrics registers
// a Prometheus recorder, which only the server exposes.
func newApp(withMetrics bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	provider, err := pipeline.ProviderFromConfig(cfg, os.Getenv, logger)
	if err != nil {
		return nil, err
	}

	opts := []pipeline.Option{
		pipeline.WithProvider(provider),
		pipeline.WithLimiter(worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)),
		pipeline.WithLogger(logger),
	}

	a := &app{cfg: cfg, logger: logger}
	if withMetrics {
		a.metrics = metrics.New()
		opts = append(opts, pipeline.WithRecorder(a.metrics))
	}
	a.pipeline = pipeline.New(cfg, opts...)
	return a, nil
}

// loader resolves files and URLs; URL fetches are paced per host
func (a *app) loader() *fetch.Loader {
	fetcher := fetch.NewFetcherFromConfig(a.cfg.HTTP).
		WithLimiter(worker.NewLimiter(a.cfg.RateLimiting.RequestsPerSecond, a.cfg.RateLimiting.BurstSize))
	return fetch.NewLoader(fetcher, a.cfg.Server.MaxUploadBytes)
}

func (a *app) close() {
	_ = a.logger.Sync()
}
