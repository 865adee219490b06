package engine

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"binscope/internal/model"
)

var (
	testPool       = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testBaseToken  = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testQuoteToken = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

// fakeReader serves pool data from memory. Reserves default to zero for
// bins absent from the liquidity map.
type fakeReader struct {
	mu        sync.Mutex
	binStep   uint16
	activeID  int32
	liquidity map[int32][2]int64

	poolErr   error
	activeErr error
	binsErr   error

	poolCalls   int
	activeCalls int
	binsCalls   int
}

func newFakeReader(binStep uint16, activeID int32) *fakeReader {
	return &fakeReader{binStep: binStep, activeID: activeID, liquidity: make(map[int32][2]int64)}
}

func (f *fakeReader) PoolInfo(_ context.Context, pool common.Address) (model.Pool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.poolCalls++
	if f.poolErr != nil {
		return model.Pool{}, f.poolErr
	}
	return model.Pool{
		Address:    pool,
		BinStep:    f.binStep,
		BaseToken:  testBaseToken,
		QuoteToken: testQuoteToken,
	}, nil
}

func (f *fakeReader) ActiveBinID(_ context.Context, _ common.Address) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activeCalls++
	if f.activeErr != nil {
		return 0, f.activeErr
	}
	return f.activeID, nil
}

func (f *fakeReader) BinReserves(_ context.Context, _ common.Address, fromID, toID int32) ([]model.RawBin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.binsCalls++
	if f.binsErr != nil {
		return nil, f.binsErr
	}
	bins := make([]model.RawBin, 0, toID-fromID+1)
	for id := fromID; id <= toID; id++ {
		reserves := f.liquidity[id]
		bins = append(bins, model.RawBin{
			BinID:        id,
			ReserveBase:  big.NewInt(reserves[0]),
			ReserveQuote: big.NewInt(reserves[1]),
		})
	}
	return bins, nil
}

// staticDecimals answers decimals lookups from a fixed map and counts calls.
type staticDecimals struct {
	mu       sync.Mutex
	decimals map[common.Address]uint8
	calls    int
	err      error
}

func newStaticDecimals() *staticDecimals {
	return &staticDecimals{decimals: map[common.Address]uint8{
		testBaseToken:  6,
		testQuoteToken: 6,
	}}
}

func (d *staticDecimals) Decimals(_ context.Context, asset common.Address) (uint8, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.err != nil {
		return 0, d.err
	}
	return d.decimals[asset], nil
}

func (d *staticDecimals) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// newTestEngine wires the full component stack over the fakes.
func newTestEngine(reader *fakeReader) (*PoolCache, *DecimalsCache, *ActiveBinTracker, *BinRangeFetcher) {
	pools := NewPoolCache(reader)
	decimals := NewDecimalsCache(newStaticDecimals())
	tracker := NewActiveBinTracker(reader, pools, decimals)
	fetcher := NewBinRangeFetcher(reader, pools, decimals, tracker)
	return pools, decimals, tracker, fetcher
}
