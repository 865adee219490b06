package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/singleflight"

	"binscope/internal/model"
)

// DefaultActiveBinTTL is short because the active bin moves with every
// trade.
const DefaultActiveBinTTL = 2 * time.Second

type activeEntry struct {
	bin       model.ActiveBin
	fetchedAt time.Time
}

// ActiveBinTracker caches the current active bin per pool behind a short
// TTL. Lookups are deduplicated; failures are not retried here because
// active-bin staleness is tolerable and callers own the retry policy.
type ActiveBinTracker struct {
	reader   PoolReader
	pools    *PoolCache
	decimals *DecimalsCache
	ttl      time.Duration
	group    singleflight.Group
	now      func() time.Time

	mu      sync.RWMutex
	entries map[common.Address]activeEntry
}

func NewActiveBinTracker(reader PoolReader, pools *PoolCache, decimals *DecimalsCache) *ActiveBinTracker {
	return &ActiveBinTracker{
		reader:   reader,
		pools:    pools,
		decimals: decimals,
		ttl:      DefaultActiveBinTTL,
		now:      time.Now,
		entries:  make(map[common.Address]activeEntry),
	}
}

// ActiveBin returns the pool's current active bin, cached for the TTL.
func (t *ActiveBinTracker) ActiveBin(ctx context.Context, pool common.Address) (model.ActiveBin, error) {
	t.mu.RLock()
	entry, ok := t.entries[pool]
	t.mu.RUnlock()
	if ok && t.now().Sub(entry.fetchedAt) < t.ttl {
		return entry.bin, nil
	}

	value, err, _ := t.group.Do(pool.Hex(), func() (interface{}, error) {
		bin, err := t.fetch(ctx, pool)
		if err != nil {
			return nil, err
		}
		t.mu.Lock()
		t.entries[pool] = activeEntry{bin: bin, fetchedAt: t.now()}
		t.mu.Unlock()
		return bin, nil
	})
	if err != nil {
		return model.ActiveBin{}, err
	}
	return value.(model.ActiveBin), nil
}

func (t *ActiveBinTracker) fetch(ctx context.Context, pool common.Address) (model.ActiveBin, error) {
	info, err := t.pools.Pool(ctx, pool)
	if err != nil {
		return model.ActiveBin{}, err
	}

	activeID, err := t.reader.ActiveBinID(ctx, pool)
	if err != nil {
		return model.ActiveBin{}, fmt.Errorf("active bin for pool %s: %w", pool.Hex(), err)
	}

	price, err := PriceForBin(activeID, info.BinStep)
	if err != nil {
		return model.ActiveBin{}, err
	}

	reserves, err := t.reader.BinReserves(ctx, pool, activeID, activeID)
	if err != nil {
		return model.ActiveBin{}, fmt.Errorf("active bin reserves for pool %s: %w", pool.Hex(), err)
	}

	bin := model.ActiveBin{BinID: activeID, Price: price}
	if len(reserves) > 0 {
		baseDecimals, err := t.decimals.Decimals(ctx, info.BaseToken)
		if err != nil {
			return model.ActiveBin{}, err
		}
		quoteDecimals, err := t.decimals.Decimals(ctx, info.QuoteToken)
		if err != nil {
			return model.ActiveBin{}, err
		}
		raw := reserves[0]
		bin.RawReserveBase = raw.ReserveBase
		bin.RawReserveQuote = raw.ReserveQuote
		bin.ReserveBase = normalizeAmount(raw.ReserveBase, baseDecimals)
		bin.ReserveQuote = normalizeAmount(raw.ReserveQuote, quoteDecimals)
	}
	return bin, nil
}
