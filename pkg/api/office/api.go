// Package office exposes the OfficeIndex subsystem over HTTP.
package office

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/openwork/search-adapters/pkg/officeindex"
)

const (
	defaultTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Config holds the HTTP-facing configuration for the office adapter.
type Config struct {
	Listen string `mapstructure:"listen"`
}

// Probe reports whether the external extractor backend is reachable.
type Probe interface {
	Reachable(ctx context.Context) bool
}

// API is the HTTP server fronting an officeindex.Index.
type API struct {
	config Config
	index  *officeindex.Index
	probe  Probe

	refreshIntervalSeconds int
	backgroundSyncSeconds  int
	backgroundActive       atomic.Bool
}

// New builds an API. probe may be nil when no external extractor is configured.
func New(cfg Config, index *officeindex.Index, indexCfg officeindex.Config, probe Probe) (*API, error) {
	if cfg.Listen == "" {
		return nil, fmt.Errorf("listen address must be specified")
	}
	if index == nil {
		return nil, fmt.Errorf("index must not be nil")
	}

	return &API{
		config:                 cfg,
		index:                  index,
		probe:                  probe,
		refreshIntervalSeconds: indexCfg.RefreshIntervalSeconds,
		backgroundSyncSeconds:  indexCfg.BackgroundSyncSeconds,
	}, nil
}

// SetBackgroundSyncActive records whether the background refresh worker is
// currently running, surfaced on /health.
func (a *API) SetBackgroundSyncActive(active bool) {
	a.backgroundActive.Store(active)
}

// Run serves the office adapter until ctx is canceled, then gracefully
// shuts down, falling back to a forced close if shutdown does not finish
// within shutdownTimeout.
func (a *API) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.config.Listen,
		ReadHeaderTimeout: defaultTimeout,
		Handler:           a.newMux(),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		slog.WarnContext(ctx, "shutting down officeindex API server")

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(ctx, "graceful shutdown failed, forcing close", "error", err)

			if closeErr := server.Close(); closeErr != nil {
				slog.ErrorContext(ctx, "forced close failed", "error", closeErr)
			}
		}
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	return nil
}
