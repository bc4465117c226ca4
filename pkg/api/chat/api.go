// Package chat exposes the ChatIndex adapter over HTTP.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/openwork/search-adapters/pkg/chatindex"
)

const (
	defaultTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Config holds the HTTP-facing configuration for the chat adapter.
type Config struct {
	Listen string `mapstructure:"listen"`
}

// API is the HTTP server fronting a chatindex.Store.
type API struct {
	config Config
	store  *chatindex.Store
}

// New builds an API over an already-open store.
func New(cfg Config, store *chatindex.Store) (*API, error) {
	if cfg.Listen == "" {
		return nil, fmt.Errorf("listen address must be specified")
	}
	if store == nil {
		return nil, fmt.Errorf("store must not be nil")
	}

	return &API{config: cfg, store: store}, nil
}

// Run serves the chat adapter until ctx is canceled.
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

		slog.WarnContext(ctx, "shutting down chatindex API server")

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
