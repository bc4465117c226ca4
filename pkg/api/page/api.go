// Package page exposes the PageIndex adapter over HTTP.
package page

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/openwork/search-adapters/pkg/pageindex"
)

const (
	defaultTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Config holds the HTTP-facing configuration for the page adapter.
type Config struct {
	Listen string `mapstructure:"listen"`
}

// API is the HTTP server fronting a pageindex.Index.
type API struct {
	config                 Config
	index                  *pageindex.Index
	refreshIntervalSeconds int
}

// New builds an API over an already-open index.
func New(cfg Config, index *pageindex.Index, refreshIntervalSeconds int) (*API, error) {
	if cfg.Listen == "" {
		return nil, fmt.Errorf("listen address must be specified")
	}
	if index == nil {
		return nil, fmt.Errorf("index must not be nil")
	}

	return &API{config: cfg, index: index, refreshIntervalSeconds: refreshIntervalSeconds}, nil
}

// Run serves the page adapter until ctx is canceled.
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

		slog.WarnContext(ctx, "shutting down pageindex API server")

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
