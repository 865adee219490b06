package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"binscope/internal/chain"
	"binscope/internal/engine"
	"binscope/internal/model"
	"binscope/internal/storage"
)

// RunConfig holds runtime settings for the watch loop.
type RunConfig struct {
	Pool         common.Address
	Radius       int
	SampleTarget int
	Interval     time.Duration
}

// Runner periodically samples a pool's bin distribution and writes the
// observations to storage.
type Runner struct {
	cfg     RunConfig
	chain   *chain.Client
	fetcher *engine.BinRangeFetcher
	storage storage.Storage
	logger  *zap.Logger
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, chainClient *chain.Client, fetcher *engine.BinRangeFetcher, storageSink storage.Storage, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:     cfg,
		chain:   chainClient,
		fetcher: fetcher,
		storage: storageSink,
		logger:  logger,
	}
}

// Run executes the watch loop until the context is cancelled. Transient
// snapshot failures are logged and the loop keeps going; only structural
// pool errors stop it.
func (r *Runner) Run(ctx context.Context) error {
	if r.fetcher == nil {
		return fmt.Errorf("fetcher is nil")
	}
	if r.storage == nil {
		return fmt.Errorf("storage is nil")
	}
	if r.cfg.Radius <= 0 {
		return fmt.Errorf("radius must be greater than zero")
	}

	interval := r.cfg.Interval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	target := r.cfg.SampleTarget
	if target <= 0 {
		target = engine.DefaultSampleTarget
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := r.snapshot(ctx, target); err != nil {
			if isStructural(err) {
				return err
			}
			r.logger.Warn("snapshot failed",
				zap.String("pool", r.cfg.Pool.Hex()),
				zap.Error(err),
			)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (r *Runner) snapshot(ctx context.Context, target int) error {
	bins, err := r.fetcher.BinsAroundActive(ctx, r.cfg.Pool, r.cfg.Radius)
	if err != nil {
		return err
	}
	sampled := engine.Sample(bins, target)

	var blockNumber uint64
	if r.chain != nil {
		blockNumber, err = r.chain.LatestBlockNumber(ctx)
		if err != nil {
			r.logger.Debug("latest block fetch failed", zap.Error(err))
			blockNumber = 0
		}
	}

	observedAt := time.Now().Unix()
	snapshots := make([]model.BinSnapshot, 0, len(sampled))
	for _, bin := range sampled {
		snapshots = append(snapshots, model.BinSnapshot{
			Pool:           r.cfg.Pool.Hex(),
			BinID:          bin.BinID,
			Price:          bin.Price,
			LiquidityBase:  bin.LiquidityBase,
			LiquidityQuote: bin.LiquidityQuote,
			TotalLiquidity: bin.TotalLiquidity,
			IsActive:       bin.IsActive,
			BlockNumber:    blockNumber,
			ObservedAt:     observedAt,
		})
	}

	if err := r.storage.PutSnapshots(ctx, snapshots); err != nil {
		return fmt.Errorf("store snapshots: %w", err)
	}

	r.logger.Info("snapshot stored",
		zap.String("pool", r.cfg.Pool.Hex()),
		zap.Int("bins", len(bins)),
		zap.Int("sampled", len(sampled)),
		zap.Uint64("block", blockNumber),
	)
	return nil
}

// isStructural reports errors that retrying cannot fix.
func isStructural(err error) bool {
	return errors.Is(err, engine.ErrInvalidParameter) ||
		errors.Is(err, engine.ErrInvalidPool) ||
		errors.Is(err, engine.ErrInvalidPoolAccount)
}
