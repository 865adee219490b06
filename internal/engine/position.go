package engine

import (
	"context"
	"fmt"
	"math/big"

	"binscope/internal/model"
)

// PositionAnalyzer aggregates a position's per-bin records into range
// bounds, totals, and the bin-level detail for the resolved window.
type PositionAnalyzer struct {
	pools    *PoolCache
	decimals *DecimalsCache
	fetcher  *BinRangeFetcher
}

func NewPositionAnalyzer(pools *PoolCache, decimals *DecimalsCache, fetcher *BinRangeFetcher) *PositionAnalyzer {
	return &PositionAnalyzer{pools: pools, decimals: decimals, fetcher: fetcher}
}

// Analyze resolves the position's bin range and totals. Bounds come from
// the per-bin records when present, otherwise from the position's stated
// bounds; totals fall back to the position-level aggregates the same way.
// An unresolvable or inverted range is an error, never a silent default.
func (a *PositionAnalyzer) Analyze(ctx context.Context, position model.Position) (model.PositionRange, error) {
	info, err := a.pools.Pool(ctx, position.Pool)
	if err != nil {
		return model.PositionRange{}, err
	}

	baseDecimals, err := a.decimals.Decimals(ctx, info.BaseToken)
	if err != nil {
		return model.PositionRange{}, err
	}
	quoteDecimals, err := a.decimals.Decimals(ctx, info.QuoteToken)
	if err != nil {
		return model.PositionRange{}, err
	}

	totalBase := new(big.Int)
	totalQuote := new(big.Int)
	feeBase := new(big.Int)
	feeQuote := new(big.Int)
	var lower, upper int32
	haveBins := len(position.Bins) > 0

	for i, record := range position.Bins {
		if i == 0 || record.BinID < lower {
			lower = record.BinID
		}
		if i == 0 || record.BinID > upper {
			upper = record.BinID
		}

		base, err := record.BaseLiquidity()
		if err != nil {
			return model.PositionRange{}, fmt.Errorf("position %s bin %d: %w", position.ID, record.BinID, err)
		}
		quote, err := record.QuoteLiquidity()
		if err != nil {
			return model.PositionRange{}, fmt.Errorf("position %s bin %d: %w", position.ID, record.BinID, err)
		}
		fb, err := record.BaseFee()
		if err != nil {
			return model.PositionRange{}, fmt.Errorf("position %s bin %d: %w", position.ID, record.BinID, err)
		}
		fq, err := record.QuoteFee()
		if err != nil {
			return model.PositionRange{}, fmt.Errorf("position %s bin %d: %w", position.ID, record.BinID, err)
		}
		totalBase.Add(totalBase, base)
		totalQuote.Add(totalQuote, quote)
		feeBase.Add(feeBase, fb)
		feeQuote.Add(feeQuote, fq)
	}

	if !haveBins {
		if position.LowerBinID == nil || position.UpperBinID == nil {
			return model.PositionRange{}, fmt.Errorf("%w: position %s has no bin records and no stated bounds", ErrInvalidParameter, position.ID)
		}
		lower = *position.LowerBinID
		upper = *position.UpperBinID

		if totalBase, err = position.BaseLiquidity(); err != nil {
			return model.PositionRange{}, fmt.Errorf("position %s: %w", position.ID, err)
		}
		if totalQuote, err = position.QuoteLiquidity(); err != nil {
			return model.PositionRange{}, fmt.Errorf("position %s: %w", position.ID, err)
		}
		if feeBase, err = position.BaseFee(); err != nil {
			return model.PositionRange{}, fmt.Errorf("position %s: %w", position.ID, err)
		}
		if feeQuote, err = position.QuoteFee(); err != nil {
			return model.PositionRange{}, fmt.Errorf("position %s: %w", position.ID, err)
		}
	}

	if lower > upper {
		return model.PositionRange{}, fmt.Errorf("%w: position %s range [%d, %d] is inverted", ErrInvalidParameter, position.ID, lower, upper)
	}

	lowerPrice, err := PriceForBin(lower, info.BinStep)
	if err != nil {
		return model.PositionRange{}, err
	}
	upperPrice, err := PriceForBin(upper, info.BinStep)
	if err != nil {
		return model.PositionRange{}, err
	}

	bins, err := a.fetcher.BinsInRange(ctx, position.Pool, lower, upper)
	if err != nil {
		return model.PositionRange{}, err
	}

	return model.PositionRange{
		LowerBinID:          lower,
		UpperBinID:          upper,
		LowerPrice:          lowerPrice,
		UpperPrice:          upperPrice,
		TotalLiquidityBase:  normalizeAmount(totalBase, baseDecimals),
		TotalLiquidityQuote: normalizeAmount(totalQuote, quoteDecimals),
		UnclaimedFeesBase:   normalizeAmount(feeBase, baseDecimals),
		UnclaimedFeesQuote:  normalizeAmount(feeQuote, quoteDecimals),
		Bins:                bins,
	}, nil
}
