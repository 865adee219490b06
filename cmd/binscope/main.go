package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"binscope/internal/chain"
	"binscope/internal/dex"
	"binscope/internal/engine"
)

func main() {
	root := &cobra.Command{
		Use:          "binscope",
		Short:        "Liquidity bin inspection and rebalancing advisor",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	binsCmd := &cobra.Command{
		Use:   "bins",
		Short: "Fetch and sample a pool's bin distribution",
		RunE:  runBins,
	}
	binsCmd.Flags().String("rpc", "", "chain RPC URL")
	binsCmd.Flags().String("pool", "", "bin pool address")
	binsCmd.Flags().Int("radius", 50, "bins on each side of the active bin")
	binsCmd.Flags().Float64("min-price", 0, "lower price bound (overrides radius together with max-price)")
	binsCmd.Flags().Float64("max-price", 0, "upper price bound")
	binsCmd.Flags().Int("sample-target", 70, "maximum bins in the output")
	binsCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(binsCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Periodically snapshot a pool's sampled bin distribution",
		RunE:  runWatch,
	}
	watchCmd.Flags().String("rpc", "", "chain RPC URL")
	watchCmd.Flags().String("pool", "", "bin pool address")
	watchCmd.Flags().Int("radius", 50, "bins on each side of the active bin")
	watchCmd.Flags().Int("sample-target", 70, "maximum bins per snapshot")
	watchCmd.Flags().Duration("interval", 15*time.Second, "snapshot interval")
	watchCmd.Flags().String("pg-dsn", "", "Postgres DSN (takes precedence over --out)")
	watchCmd.Flags().String("out", "./data/snapshots.jsonl", "output JSONL path")
	watchCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(watchCmd)

	adviseCmd := &cobra.Command{
		Use:   "advise",
		Short: "Advise whether a position should be rebalanced",
		RunE:  runAdvise,
	}
	adviseCmd.Flags().String("rpc", "", "chain RPC URL")
	adviseCmd.Flags().String("position", "", "position document path (JSON)")
	adviseCmd.Flags().Float64("threshold", 0.1, "edge-zone fraction of the position span")
	adviseCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(adviseCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// engineStack bundles the component wiring shared by all commands.
type engineStack struct {
	chain    *chain.Client
	pools    *engine.PoolCache
	decimals *engine.DecimalsCache
	tracker  *engine.ActiveBinTracker
	fetcher  *engine.BinRangeFetcher
}

func newEngineStack(ctx context.Context, rpcURL string, logger *zap.Logger) (*engineStack, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}

	chainClient, err := chain.NewClient(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}

	reader := dex.NewPairReader(chainClient, logger)
	pools := engine.NewPoolCache(reader)
	decimals := engine.NewDecimalsCache(reader)
	tracker := engine.NewActiveBinTracker(reader, pools, decimals)
	fetcher := engine.NewBinRangeFetcher(reader, pools, decimals, tracker)

	return &engineStack{
		chain:    chainClient,
		pools:    pools,
		decimals: decimals,
		tracker:  tracker,
		fetcher:  fetcher,
	}, nil
}

func (s *engineStack) Close() {
	if s.chain != nil {
		s.chain.Close()
	}
}

func parsePoolAddress(value string) (common.Address, error) {
	if value == "" {
		return common.Address{}, fmt.Errorf("pool address is required")
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid pool address %q", value)
	}
	return common.HexToAddress(value), nil
}
