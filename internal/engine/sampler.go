package engine

import (
	"sort"

	"binscope/internal/model"
)

// DefaultSampleTarget is the bin budget used by the visualization callers.
const DefaultSampleTarget = 70

// Sample reduces bins to at most target entries for a fixed visualization
// budget. Bins carrying liquidity are kept in full while they fit the
// budget, with empty bins stride-sampled into the remaining slots; when
// liquid bins alone exceed the budget they are stride-sampled and empty
// bins are dropped. The active bin is always present in the output, and the
// result is ascending by bin id.
func Sample(bins []model.Bin, target int) []model.Bin {
	if target <= 0 || len(bins) <= target {
		return bins
	}

	significant := make([]model.Bin, 0, len(bins))
	empty := make([]model.Bin, 0, len(bins))
	var active *model.Bin
	for i := range bins {
		if bins[i].IsActive {
			active = &bins[i]
		}
		if bins[i].TotalLiquidity > 0 {
			significant = append(significant, bins[i])
		} else {
			empty = append(empty, bins[i])
		}
	}

	var sampled []model.Bin
	if len(significant) <= target {
		sampled = append(sampled, significant...)
		slots := target - len(sampled)
		if slots > 0 && len(empty) > 0 {
			stride := len(empty) / slots
			if stride < 1 {
				stride = 1
			}
			for i := 0; i < len(empty) && len(sampled) < target; i += stride {
				sampled = append(sampled, empty[i])
			}
		}
	} else {
		stride := len(significant) / target
		if stride < 1 {
			stride = 1
		}
		for i := 0; i < len(significant) && len(sampled) < target; i += stride {
			sampled = append(sampled, significant[i])
		}
	}

	if active != nil && !containsBin(sampled, active.BinID) {
		sampled = append(sampled, *active)
	}

	sort.Slice(sampled, func(i, j int) bool { return sampled[i].BinID < sampled[j].BinID })
	return sampled
}

func containsBin(bins []model.Bin, id int32) bool {
	for i := range bins {
		if bins[i].BinID == id {
			return true
		}
	}
	return false
}
