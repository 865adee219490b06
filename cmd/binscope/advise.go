package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"binscope/internal/config"
	"binscope/internal/engine"
	"binscope/internal/model"
)

func runAdvise(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadAdvise(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Position == "" {
		return fmt.Errorf("position document path is required")
	}
	raw, err := os.ReadFile(cfg.Position)
	if err != nil {
		return fmt.Errorf("read position document: %w", err)
	}
	var position model.Position
	if err := json.Unmarshal(raw, &position); err != nil {
		return fmt.Errorf("parse position document: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stack, err := newEngineStack(ctx, cfg.RPCURL, logger)
	if err != nil {
		return err
	}
	defer stack.Close()

	analyzer := engine.NewPositionAnalyzer(stack.pools, stack.decimals, stack.fetcher)
	advisor := engine.NewRebalanceAdvisor(stack.tracker, analyzer)

	result, err := advisor.ShouldRebalance(ctx, position, cfg.Threshold)
	if err != nil {
		return err
	}

	logger.Info("advice computed",
		zap.String("position", position.ID),
		zap.String("pool", position.Pool.Hex()),
		zap.Bool("should_rebalance", result.ShouldRebalance),
		zap.String("reason", result.Reason),
	)

	return json.NewEncoder(os.Stdout).Encode(result)
}
