package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/singleflight"
)

// DefaultDecimalsTTL bounds memory, not correctness: decimals are immutable
// once a token is deployed.
const DefaultDecimalsTTL = time.Hour

type decimalsEntry struct {
	decimals uint8
	cachedAt time.Time
}

// DecimalsCache caches token decimal precision with a TTL, deduplicating
// concurrent lookups for the same asset and retrying rate-limited lookups
// with bounded backoff. Failures are never cached.
type DecimalsCache struct {
	source DecimalsSource
	ttl    time.Duration
	retry  RetryPolicy
	group  singleflight.Group
	now    func() time.Time

	mu      sync.RWMutex
	entries map[common.Address]decimalsEntry
}

func NewDecimalsCache(source DecimalsSource) *DecimalsCache {
	return &DecimalsCache{
		source:  source,
		ttl:     DefaultDecimalsTTL,
		retry:   DecimalsRetryPolicy(),
		now:     time.Now,
		entries: make(map[common.Address]decimalsEntry),
	}
}

// Decimals returns the asset's decimal precision, from cache when fresh.
// Concurrent callers for the same asset share a single underlying lookup.
func (c *DecimalsCache) Decimals(ctx context.Context, asset common.Address) (uint8, error) {
	c.mu.RLock()
	entry, ok := c.entries[asset]
	c.mu.RUnlock()
	if ok && c.now().Sub(entry.cachedAt) < c.ttl {
		return entry.decimals, nil
	}

	value, err, _ := c.group.Do(asset.Hex(), func() (interface{}, error) {
		var decimals uint8
		lookupErr := c.retry.Do(ctx, func(ctx context.Context) error {
			var err error
			decimals, err = c.source.Decimals(ctx, asset)
			return err
		})
		if lookupErr != nil {
			return nil, fmt.Errorf("decimals for %s: %w", asset.Hex(), lookupErr)
		}

		c.mu.Lock()
		c.entries[asset] = decimalsEntry{decimals: decimals, cachedAt: c.now()}
		c.mu.Unlock()
		return decimals, nil
	})
	if err != nil {
		return 0, err
	}
	return value.(uint8), nil
}
