package engine

import (
	"context"
	"fmt"
	"math"

	"binscope/internal/model"
)

// DefaultRebalanceThreshold is the fraction of the position's span treated
// as the edge zone.
const DefaultRebalanceThreshold = 0.1

// RebalanceAdvisor decides whether a position has drifted close enough to
// an edge of its range to be worth rebalancing. It never mutates position
// state.
type RebalanceAdvisor struct {
	tracker  *ActiveBinTracker
	analyzer *PositionAnalyzer
}

func NewRebalanceAdvisor(tracker *ActiveBinTracker, analyzer *PositionAnalyzer) *RebalanceAdvisor {
	return &RebalanceAdvisor{tracker: tracker, analyzer: analyzer}
}

// ShouldRebalance recommends rebalancing when the pool's active bin is
// outside the position's range or within floor(span*threshold) bins of
// either edge. A non-positive threshold falls back to the default.
func (r *RebalanceAdvisor) ShouldRebalance(ctx context.Context, position model.Position, threshold float64) (model.RebalanceResult, error) {
	if threshold <= 0 {
		threshold = DefaultRebalanceThreshold
	}
	if threshold >= 1 {
		return model.RebalanceResult{}, fmt.Errorf("%w: threshold fraction %v must be below 1", ErrInvalidParameter, threshold)
	}

	active, err := r.tracker.ActiveBin(ctx, position.Pool)
	if err != nil {
		return model.RebalanceResult{}, err
	}

	analyzed, err := r.analyzer.Analyze(ctx, position)
	if err != nil {
		return model.RebalanceResult{}, err
	}

	result := model.RebalanceResult{
		CurrentPrice: active.Price,
		ActiveBinID:  active.BinID,
	}

	span := analyzed.UpperBinID - analyzed.LowerBinID
	thresholdBins := int32(math.Floor(float64(span) * threshold))

	switch {
	case active.BinID < analyzed.LowerBinID || active.BinID > analyzed.UpperBinID:
		result.ShouldRebalance = true
		result.Reason = fmt.Sprintf("active bin %d is outside the position range [%d, %d]",
			active.BinID, analyzed.LowerBinID, analyzed.UpperBinID)
	case active.BinID-analyzed.LowerBinID <= thresholdBins:
		result.ShouldRebalance = true
		result.Reason = fmt.Sprintf("active bin %d is within %d bins of the lower edge %d",
			active.BinID, thresholdBins, analyzed.LowerBinID)
	case analyzed.UpperBinID-active.BinID <= thresholdBins:
		result.ShouldRebalance = true
		result.Reason = fmt.Sprintf("active bin %d is within %d bins of the upper edge %d",
			active.BinID, thresholdBins, analyzed.UpperBinID)
	}

	return result, nil
}
