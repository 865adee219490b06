package engine

import (
	"context"
	"strings"
	"testing"

	"binscope/internal/model"
)

// spanPosition builds a position spanning [lower, upper] with stated bounds
// only, over a pool whose active bin the fake reader controls.
func spanPosition(lower, upper int32) model.Position {
	return model.Position{
		ID:           "pos-span",
		Pool:         testPool,
		LowerBinID:   int32Ptr(lower),
		UpperBinID:   int32Ptr(upper),
		TotalAmountX: "1000",
		TotalAmountY: "1000",
	}
}

func newTestAdvisor(activeID int32) *RebalanceAdvisor {
	reader := newFakeReader(25, activeID)
	pools, decimals, tracker, fetcher := newTestEngine(reader)
	analyzer := NewPositionAnalyzer(pools, decimals, fetcher)
	return NewRebalanceAdvisor(tracker, analyzer)
}

func TestShouldRebalanceEdgeCases(t *testing.T) {
	lower := int32(ReferenceBinID)
	upper := lower + 100 // span 100, threshold 0.1 -> 10 bins

	cases := []struct {
		name       string
		activeID   int32
		want       bool
		reasonPart string
	}{
		{"mid range", lower + 50, false, ""},
		{"near lower edge", lower + 8, true, "lower edge"},
		{"near upper edge", upper - 3, true, "upper edge"},
		{"exactly at threshold", lower + 10, true, "lower edge"},
		{"just past threshold", lower + 11, false, ""},
		{"below range", lower - 5, true, "outside the position range"},
		{"above range", upper + 1, true, "outside the position range"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			advisor := newTestAdvisor(tc.activeID)
			result, err := advisor.ShouldRebalance(context.Background(), spanPosition(lower, upper), 0.1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.ShouldRebalance != tc.want {
				t.Fatalf("verdict mismatch for active %d: %v, reason %q", tc.activeID, result.ShouldRebalance, result.Reason)
			}
			if tc.reasonPart != "" && !strings.Contains(result.Reason, tc.reasonPart) {
				t.Fatalf("reason %q does not mention %q", result.Reason, tc.reasonPart)
			}
			if result.ActiveBinID != tc.activeID {
				t.Fatalf("active bin id mismatch: %d", result.ActiveBinID)
			}
		})
	}
}

func TestShouldRebalanceReportsCurrentPrice(t *testing.T) {
	activeID := int32(ReferenceBinID + 50)
	advisor := newTestAdvisor(activeID)

	result, err := advisor.ShouldRebalance(context.Background(), spanPosition(ReferenceBinID, ReferenceBinID+100), 0.1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want, _ := PriceForBin(activeID, 25)
	if result.CurrentPrice != want {
		t.Fatalf("current price mismatch: %v != %v", result.CurrentPrice, want)
	}
}

func TestShouldRebalanceDefaultsThreshold(t *testing.T) {
	// active 8 bins from the lower edge trips the default 10% threshold
	advisor := newTestAdvisor(ReferenceBinID + 8)

	result, err := advisor.ShouldRebalance(context.Background(), spanPosition(ReferenceBinID, ReferenceBinID+100), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.ShouldRebalance {
		t.Fatalf("default threshold should trigger near the lower edge")
	}
}
