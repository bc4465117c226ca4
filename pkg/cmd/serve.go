package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/openwork/search-adapters/pkg/api/chat"
	"github.com/openwork/search-adapters/pkg/api/office"
	"github.com/openwork/search-adapters/pkg/api/page"
	"github.com/openwork/search-adapters/pkg/chatindex"
	"github.com/openwork/search-adapters/pkg/officeindex"
	"github.com/openwork/search-adapters/pkg/pageindex"
)

// newServeCmd creates the "serve <adapter>" command, starting exactly one
// of the office, chat, or page HTTP adapters until the process is signaled
// to stop.
func newServeCmd(flags *cmdFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "serve [office|chat|page]",
		Short:     "Start one of the search adapters",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"office", "chat", "page"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), flags, args[0])
		},
	}

	return cmd
}

func runServe(ctx context.Context, flags *cmdFlags, adapter string) error {
	if err := initLogger(flags); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch adapter {
	case "office":
		return serveOffice(ctx, cfg.Office)
	case "chat":
		return serveChat(ctx, cfg.Chat)
	case "page":
		return servePage(ctx, cfg.Page)
	default:
		return fmt.Errorf("unknown adapter %q: must be one of office, chat, page", adapter)
	}
}

func serveOffice(ctx context.Context, apiCfg office.Config) error {
	indexCfg := officeindex.ConfigFromEnv()

	mirror, err := officeindex.NewS3Mirror(ctx, indexCfg)
	if err != nil {
		return fmt.Errorf("failed to init S3 mirror: %w", err)
	}

	concreteProbe, err := officeindex.NewExtractorProbe(indexCfg)
	if err != nil {
		return fmt.Errorf("failed to init extractor probe: %w", err)
	}
	probe := officeProbeOrNil(concreteProbe)
	if concreteProbe != nil {
		slog.InfoContext(ctx, "external extractor probe", "reachable", concreteProbe.Reachable(ctx))
	}

	idx := officeindex.New(indexCfg, mirror)

	apiSvc, err := office.New(apiCfg, idx, indexCfg, probe)
	if err != nil {
		return fmt.Errorf("failed to create office API: %w", err)
	}

	if indexCfg.BackgroundSyncSeconds > 0 {
		apiSvc.SetBackgroundSyncActive(true)
		go officeindex.RunBackgroundRefresh(ctx, idx, time.Duration(indexCfg.BackgroundSyncSeconds)*time.Second)
	}

	slog.InfoContext(ctx, "starting officeindex adapter", "listen", apiCfg.Listen)

	if err := apiSvc.Run(ctx); err != nil {
		return fmt.Errorf("office adapter stopped: %w", err)
	}

	return nil
}

// officeProbeOrNil converts a possibly-nil *officeindex.ExtractorProbe into
// an office.Probe interface value. A direct assignment would leave the
// interface holding a non-nil (typed-nil) pointer even when concrete is nil,
// so office.New would see a "configured" probe that always reports
// unreachable instead of omitting the field entirely.
func officeProbeOrNil(concrete *officeindex.ExtractorProbe) office.Probe {
	if concrete == nil {
		return nil
	}
	return concrete
}

func serveChat(ctx context.Context, apiCfg chat.Config) error {
	dbPath := chatindex.ResolveDatabasePath()

	store, err := chatindex.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open chat database: %w", err)
	}
	defer store.Close()

	apiSvc, err := chat.New(apiCfg, store)
	if err != nil {
		return fmt.Errorf("failed to create chat API: %w", err)
	}

	slog.InfoContext(ctx, "starting chatindex adapter", "listen", apiCfg.Listen, "database", dbPath)

	if err := apiSvc.Run(ctx); err != nil {
		return fmt.Errorf("chat adapter stopped: %w", err)
	}

	return nil
}

func servePage(ctx context.Context, apiCfg page.Config) error {
	indexCfg := pageindex.ConfigFromEnv()

	idx, err := pageindex.New(indexCfg)
	if err != nil {
		return fmt.Errorf("failed to open page index: %w", err)
	}
	defer idx.Close()

	if _, err := idx.Refresh(ctx); err != nil {
		slog.WarnContext(ctx, "initial pageindex refresh failed", "error", err)
	}

	apiSvc, err := page.New(apiCfg, idx, indexCfg.RefreshIntervalSeconds)
	if err != nil {
		return fmt.Errorf("failed to create page API: %w", err)
	}

	if indexCfg.BackgroundSyncSeconds > 0 {
		go pageindex.RunBackgroundRefresh(ctx, idx, time.Duration(indexCfg.BackgroundSyncSeconds)*time.Second)
	}

	slog.InfoContext(ctx, "starting pageindex adapter", "listen", apiCfg.Listen)

	if err := apiSvc.Run(ctx); err != nil {
		return fmt.Errorf("page adapter stopped: %w", err)
	}

	return nil
}
