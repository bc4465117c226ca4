package pageindex

import (
	"context"
	"log/slog"
	"time"
)

// RunBackgroundRefresh periodically refreshes idx until ctx is canceled.
// A zero or negative interval disables the worker entirely.
func RunBackgroundRefresh(ctx context.Context, idx *Index, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := idx.Refresh(ctx); err != nil {
				slog.WarnContext(ctx, "pageindex background refresh failed", "error", err)
			}
		}
	}
}
