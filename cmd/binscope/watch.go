package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"binscope/internal/config"
	"binscope/internal/storage"
	"binscope/internal/storage/postgres"
	"binscope/internal/watch"
)

func runWatch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWatch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	pool, err := parsePoolAddress(cfg.Pool)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stack, err := newEngineStack(ctx, cfg.RPCURL, logger)
	if err != nil {
		return err
	}
	defer stack.Close()

	var sink storage.Storage
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sink = store
	} else {
		sink = storage.NewJsonlStorage(cfg.Out)
	}

	runner := watch.NewRunner(watch.RunConfig{
		Pool:         pool,
		Radius:       cfg.Radius,
		SampleTarget: cfg.SampleTarget,
		Interval:     cfg.Interval,
	}, stack.chain, stack.fetcher, sink, logger)

	logger.Info("watch start",
		zap.String("pool", pool.Hex()),
		zap.Int("radius", cfg.Radius),
		zap.Int("sample_target", cfg.SampleTarget),
		zap.Duration("interval", cfg.Interval),
		zap.Bool("postgres", cfg.PGDSN != ""),
	)

	return runner.Run(ctx)
}
