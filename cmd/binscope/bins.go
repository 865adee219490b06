package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"binscope/internal/config"
	"binscope/internal/engine"
	"binscope/internal/model"
)

func runBins(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadBins(cfgFile, cmd.Flags())
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

	byPrice := cfg.MinPrice > 0 && cfg.MaxPrice > 0
	logger.Info("bins fetch",
		zap.String("pool", pool.Hex()),
		zap.Bool("by_price", byPrice),
		zap.Int("radius", cfg.Radius),
		zap.Int("sample_target", cfg.SampleTarget),
	)

	var bins []model.Bin
	if byPrice {
		bins, err = stack.fetcher.BinsBetweenPrices(ctx, pool, cfg.MinPrice, cfg.MaxPrice)
	} else {
		bins, err = stack.fetcher.BinsAroundActive(ctx, pool, cfg.Radius)
	}
	if err != nil {
		return err
	}

	sampled := engine.Sample(bins, cfg.SampleTarget)
	logger.Info("bins sampled",
		zap.Int("fetched", len(bins)),
		zap.Int("emitted", len(sampled)),
	)

	encoder := json.NewEncoder(os.Stdout)
	for _, bin := range sampled {
		if err := encoder.Encode(bin); err != nil {
			return err
		}
	}
	return nil
}
