package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"binscope/internal/model"
)

// BinRangeFetcher fetches and normalizes bin windows, either centered on
// the active bin or covering a price interval.
type BinRangeFetcher struct {
	reader   PoolReader
	pools    *PoolCache
	decimals *DecimalsCache
	tracker  *ActiveBinTracker
}

func NewBinRangeFetcher(reader PoolReader, pools *PoolCache, decimals *DecimalsCache, tracker *ActiveBinTracker) *BinRangeFetcher {
	return &BinRangeFetcher{reader: reader, pools: pools, decimals: decimals, tracker: tracker}
}

// BinsAroundActive returns 2*radius+1 bins centered on the pool's active
// bin, ascending by id, with exactly the active bin marked.
func (f *BinRangeFetcher) BinsAroundActive(ctx context.Context, pool common.Address, radius int) ([]model.Bin, error) {
	if radius < 0 {
		return nil, fmt.Errorf("%w: radius must be non-negative", ErrInvalidParameter)
	}

	active, err := f.tracker.ActiveBin(ctx, pool)
	if err != nil {
		return nil, err
	}

	from := int64(active.BinID) - int64(radius)
	to := int64(active.BinID) + int64(radius)
	if from < 0 {
		from = 0
	}
	if to > maxBinID {
		to = maxBinID
	}

	return f.fetchWindow(ctx, pool, int32(from), int32(to), active.BinID)
}

// BinsBetweenPrices returns the bins covering [minPrice, maxPrice]: the
// lower bound rounds down and the upper bound rounds up, so the returned
// window always contains the full requested interval.
func (f *BinRangeFetcher) BinsBetweenPrices(ctx context.Context, pool common.Address, minPrice, maxPrice float64) ([]model.Bin, error) {
	if minPrice > maxPrice {
		return nil, fmt.Errorf("%w: inverted price range [%v, %v]", ErrInvalidParameter, minPrice, maxPrice)
	}

	info, err := f.pools.Pool(ctx, pool)
	if err != nil {
		return nil, err
	}

	lower, err := BinForPrice(minPrice, info.BinStep, false)
	if err != nil {
		return nil, err
	}
	upper, err := BinForPrice(maxPrice, info.BinStep, true)
	if err != nil {
		return nil, err
	}

	active, err := f.tracker.ActiveBin(ctx, pool)
	if err != nil {
		return nil, err
	}

	return f.fetchWindow(ctx, pool, lower, upper, active.BinID)
}

// BinsInRange returns normalized bins for an explicit id window.
func (f *BinRangeFetcher) BinsInRange(ctx context.Context, pool common.Address, fromID, toID int32) ([]model.Bin, error) {
	if fromID > toID {
		return nil, fmt.Errorf("%w: inverted bin range [%d, %d]", ErrInvalidParameter, fromID, toID)
	}

	active, err := f.tracker.ActiveBin(ctx, pool)
	if err != nil {
		return nil, err
	}

	return f.fetchWindow(ctx, pool, fromID, toID, active.BinID)
}

func (f *BinRangeFetcher) fetchWindow(ctx context.Context, pool common.Address, fromID, toID, activeID int32) ([]model.Bin, error) {
	info, err := f.pools.Pool(ctx, pool)
	if err != nil {
		return nil, err
	}

	baseDecimals, err := f.decimals.Decimals(ctx, info.BaseToken)
	if err != nil {
		return nil, err
	}
	quoteDecimals, err := f.decimals.Decimals(ctx, info.QuoteToken)
	if err != nil {
		return nil, err
	}

	raw, err := f.reader.BinReserves(ctx, pool, fromID, toID)
	if err != nil {
		return nil, fmt.Errorf("bins [%d, %d] for pool %s: %w", fromID, toID, pool.Hex(), err)
	}

	bins := make([]model.Bin, 0, len(raw))
	for _, record := range raw {
		price, err := PriceForBin(record.BinID, info.BinStep)
		if err != nil {
			return nil, err
		}
		base := normalizeAmount(record.ReserveBase, baseDecimals)
		quote := normalizeAmount(record.ReserveQuote, quoteDecimals)
		bins = append(bins, model.Bin{
			BinID:          record.BinID,
			Price:          price,
			LiquidityBase:  base,
			LiquidityQuote: quote,
			TotalLiquidity: base + quote,
			IsActive:       record.BinID == activeID,
		})
	}

	sort.Slice(bins, func(i, j int) bool { return bins[i].BinID < bins[j].BinID })
	return bins, nil
}
