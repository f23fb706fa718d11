package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Abdurahmanit/skip2love/internal/adapter/sessionstore/sqlite"
	"github.com/Abdurahmanit/skip2love/internal/app"
	"github.com/Abdurahmanit/skip2love/internal/cli"
	"github.com/Abdurahmanit/skip2love/internal/config"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"github.com/Abdurahmanit/skip2love/internal/platform/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	lc := cfg.Logging()
	lc.Format = logger.FormatConsole
	lc.OutputFile = "stderr"
	logg := logger.NewLogger(lc)
	defer logg.Sync()

	runner := cli.New(func(ctx context.Context) (*cli.Backend, error) {
		return openBackend(ctx, cfg, logg)
	}, os.Stdout, logg)

	if err := runner.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*cli.Backend, error) {
	tokens, err := sqlite.Open(ctx, cfg.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	core, err := app.NewCore(ctx, cfg, metrics.NewMetricsManager("skip2love_cli"), log)
	if err != nil {
		_ = tokens.Close()
		return nil, err
	}
	return &cli.Backend{
		Auth:     core.Auth,
		Tokens:   tokens,
		Ads:      core.Ads,
		Profiles: core.Profiles,
		Gate:     core.Gate,
		Close: func(ctx context.Context) error {
			return errors.Join(core.Close(ctx), tokens.Close())
		},
	}, nil
}
