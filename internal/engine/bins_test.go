package engine

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestBinsAroundActiveWindow(t *testing.T) {
	reader := newFakeReader(25, ReferenceBinID)
	reader.liquidity[ReferenceBinID] = [2]int64{1_000_000, 2_000_000}
	reader.liquidity[ReferenceBinID-3] = [2]int64{500_000, 0}
	_, _, _, fetcher := newTestEngine(reader)

	bins, err := fetcher.BinsAroundActive(context.Background(), testPool, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bins) != 101 {
		t.Fatalf("expected 101 bins, got %d", len(bins))
	}

	activeCount := 0
	for i, bin := range bins {
		if i > 0 && bins[i-1].BinID >= bin.BinID {
			t.Fatalf("bins not strictly ascending at index %d", i)
		}
		if bin.IsActive {
			activeCount++
			wantPrice, err := PriceForBin(ReferenceBinID, 25)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if bin.Price != wantPrice {
				t.Fatalf("active bin price mismatch: %v != %v", bin.Price, wantPrice)
			}
			if bin.BinID != ReferenceBinID {
				t.Fatalf("active bin id mismatch: %d", bin.BinID)
			}
		}
		if math.Abs(bin.TotalLiquidity-(bin.LiquidityBase+bin.LiquidityQuote)) > 1e-12 {
			t.Fatalf("total liquidity invariant broken at bin %d", bin.BinID)
		}
	}
	if activeCount != 1 {
		t.Fatalf("expected exactly one active bin, got %d", activeCount)
	}

	// reserves are normalized through 6 token decimals
	for _, bin := range bins {
		if bin.BinID == ReferenceBinID && (bin.LiquidityBase != 1.0 || bin.LiquidityQuote != 2.0) {
			t.Fatalf("active bin normalization mismatch: %+v", bin)
		}
	}
}

func TestBinsAroundActiveRejectsNegativeRadius(t *testing.T) {
	reader := newFakeReader(25, ReferenceBinID)
	_, _, _, fetcher := newTestEngine(reader)

	if _, err := fetcher.BinsAroundActive(context.Background(), testPool, -1); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected invalid parameter, got %v", err)
	}
}

func TestBinsBetweenPricesCoversInterval(t *testing.T) {
	reader := newFakeReader(25, ReferenceBinID)
	_, _, _, fetcher := newTestEngine(reader)

	minPrice, err := PriceForBin(ReferenceBinID-10, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	maxPrice, err := PriceForBin(ReferenceBinID+10, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// nudge the bounds into bin interiors: the window must still cover them
	minPrice *= 1.0005
	maxPrice *= 1.0005

	bins, err := fetcher.BinsBetweenPrices(context.Background(), testPool, minPrice, maxPrice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bins) == 0 {
		t.Fatalf("expected a non-empty window")
	}

	first := bins[0]
	last := bins[len(bins)-1]
	if first.Price > minPrice {
		t.Fatalf("window does not cover the lower bound: %v > %v", first.Price, minPrice)
	}
	lastUpper := last.Price * (1 + 25.0/10_000)
	if lastUpper < maxPrice {
		t.Fatalf("window does not cover the upper bound: %v < %v", lastUpper, maxPrice)
	}
}

func TestBinsBetweenPricesRejectsInvertedRange(t *testing.T) {
	reader := newFakeReader(25, ReferenceBinID)
	_, _, _, fetcher := newTestEngine(reader)

	if _, err := fetcher.BinsBetweenPrices(context.Background(), testPool, 2.0, 1.0); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected invalid parameter, got %v", err)
	}
}

func TestBinsInRangeRejectsInvertedWindow(t *testing.T) {
	reader := newFakeReader(25, ReferenceBinID)
	_, _, _, fetcher := newTestEngine(reader)

	if _, err := fetcher.BinsInRange(context.Background(), testPool, 10, 5); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected invalid parameter, got %v", err)
	}
}

func TestFetchWindowSurfacesPoolAccountErrors(t *testing.T) {
	reader := newFakeReader(25, ReferenceBinID)
	reader.poolErr = ErrInvalidPoolAccount
	_, _, _, fetcher := newTestEngine(reader)

	if _, err := fetcher.BinsAroundActive(context.Background(), testPool, 5); !errors.Is(err, ErrInvalidPoolAccount) {
		t.Fatalf("expected invalid pool account, got %v", err)
	}
}

func TestFetchWindowFetchesDecimalsOncePerAsset(t *testing.T) {
	reader := newFakeReader(25, ReferenceBinID)
	pools := NewPoolCache(reader)
	source := newStaticDecimals()
	decimals := NewDecimalsCache(source)
	tracker := NewActiveBinTracker(reader, pools, decimals)
	fetcher := NewBinRangeFetcher(reader, pools, decimals, tracker)

	if _, err := fetcher.BinsAroundActive(context.Background(), testPool, 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// one lookup per distinct token across the whole call, tracker included
	if source.callCount() != 2 {
		t.Fatalf("expected 2 decimals lookups, got %d", source.callCount())
	}
}
