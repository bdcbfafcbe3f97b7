// Package app assembles the handler and its collaborators from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"wsdetails/internal/config"
	"wsdetails/internal/handler"
	archives3 "wsdetails/internal/infra/archive/s3"
	"wsdetails/internal/logging"
	"wsdetails/internal/metrics"
	"wsdetails/internal/store"
)

// App is a fully wired handler plus the resources it owns.
type App struct {
	Config   config.Config
	Logger   logging.Logger
	Handler  *handler.Handler
	Store    *store.Handle
	Registry *prometheus.Registry
}

// New builds an App from cfg.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return NewWithLogger(ctx, cfg, logger)
}

// NewWithLogger builds an App using an existing logger.
func NewWithLogger(ctx context.Context, cfg config.Config, logger logging.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	opts := []handler.Option{
		handler.WithLogger(logger),
		handler.WithMetrics(rec),
		handler.WithTable(cfg.TableName),
	}
	if cfg.Archive.Enabled() {
		archive, err := archives3.New(ctx, archives3.Config{
			Region:    cfg.Region,
			Bucket:    cfg.Archive.Bucket,
			Prefix:    cfg.Archive.Prefix,
			Endpoint:  cfg.Archive.Endpoint,
			PathStyle: cfg.Archive.PathStyle,
		})
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("event archive: %w", err)
		}
		opts = append(opts, handler.WithArchive(archive))
	}
	return &App{
		Config:   cfg,
		Logger:   logger,
		Handler:  handler.New(st, cfg.OriginURL, opts...),
		Store:    st,
		Registry: reg,
	}, nil
}

// Close releases the store.
func (a *App) Close() error { return a.Store.Close() }
