package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

const reindexRequestTimeout = 25 * time.Second

// newReindexCmd creates a cobra command that POSTs a reindex request to a
// running OfficeIndex or PageIndex instance and prints the JSON response.
// Adapted from the original's standalone officeindex_reindex.py script.
func newReindexCmd() *cobra.Command {
	var url string
	var mode string

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Trigger a full or incremental reindex on a running adapter instance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReindex(cmd.Context(), url, mode)
		},
	}

	cmd.Flags().StringVar(&url, "url", "http://127.0.0.1:8103/reindex", "reindex endpoint URL")
	cmd.Flags().StringVar(&mode, "mode", "full", "reindex mode: full or incremental")

	return cmd
}

func runReindex(ctx context.Context, url, mode string) error {
	ctx, cancel := context.WithTimeout(ctx, reindexRequestTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"mode": mode})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req) //nolint:gosec // URL is user-provided via CLI flag, not tainted input
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}

	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}

	fmt.Println(string(pretty)) //nolint:forbidigo // CLI output is intentional

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("server returned HTTP %d", resp.StatusCode)
	}

	return nil
}
