package engine

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"binscope/internal/model"
)

// PoolReader is the ledger-read capability the engine consumes: pool
// parameters, the current active bin, and raw reserves for a bin window.
// Implementations must return BinReserves ascending by bin id.
type PoolReader interface {
	PoolInfo(ctx context.Context, pool common.Address) (model.Pool, error)
	ActiveBinID(ctx context.Context, pool common.Address) (int32, error)
	BinReserves(ctx context.Context, pool common.Address, fromID, toID int32) ([]model.RawBin, error)
}

// DecimalsSource is the asset-metadata capability: decimal precision of a
// token.
type DecimalsSource interface {
	Decimals(ctx context.Context, asset common.Address) (uint8, error)
}

// PoolCache caches immutable pool parameters by address for the session.
type PoolCache struct {
	reader PoolReader
	mu     sync.RWMutex
	data   map[common.Address]model.Pool
}

func NewPoolCache(reader PoolReader) *PoolCache {
	return &PoolCache{reader: reader, data: make(map[common.Address]model.Pool)}
}

// Pool returns the cached pool parameters, loading them on first use.
func (c *PoolCache) Pool(ctx context.Context, address common.Address) (model.Pool, error) {
	c.mu.RLock()
	pool, ok := c.data[address]
	c.mu.RUnlock()
	if ok {
		return pool, nil
	}

	pool, err := c.reader.PoolInfo(ctx, address)
	if err != nil {
		return model.Pool{}, fmt.Errorf("pool %s: %w", address.Hex(), err)
	}

	c.mu.Lock()
	c.data[address] = pool
	c.mu.Unlock()
	return pool, nil
}

// normalizeAmount converts a raw integer token amount into human units.
func normalizeAmount(value *big.Int, decimals uint8) float64 {
	if value == nil {
		return 0
	}
	if decimals == 0 {
		f, _ := new(big.Float).SetInt(value).Float64()
		return f
	}
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	f, _ := new(big.Rat).SetFrac(value, denom).Float64()
	return f
}
