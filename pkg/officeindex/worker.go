package officeindex

import (
	"context"
	"log/slog"
	"time"
)

// RunBackgroundRefresh blocks, running an incremental refresh every interval
// until ctx is canceled. It is meant to be started in its own goroutine.
func RunBackgroundRefresh(ctx context.Context, idx *Index, interval time.Duration) {
	if interval <= 0 {
		return
	}

	slog.InfoContext(ctx, "officeindex background sync enabled", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			summary, err := idx.Refresh(ctx, RefreshIncremental, true)
			if err != nil {
				slog.ErrorContext(ctx, "officeindex background refresh failed", "error", err)
				continue
			}
			if summary.Status == "ok" {
				slog.InfoContext(ctx, "officeindex background refresh complete",
					"indexedFiles", summary.IndexedFiles,
					"updatedFiles", summary.UpdatedFiles,
					"failedFiles", summary.FailedFiles,
				)
			}
		}
	}
}
