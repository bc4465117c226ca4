// Command searchindex runs the office, chat, and page search adapters.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/openwork/search-adapters/pkg/cmd"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd := cmd.InitCommand(cmd.BuildInfo{
		Version: version,
		AppName: "searchindex",
	})

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err) //nolint:forbidigo // CLI error output is intentional
		os.Exit(1)
	}
}
