package model

// PositionRange is the analyzed view of a position: resolved bounds, their
// prices, normalized totals, and the bin-level detail for the resolved
// window.
type PositionRange struct {
	LowerBinID          int32   `json:"lower_bin_id"`
	UpperBinID          int32   `json:"upper_bin_id"`
	LowerPrice          float64 `json:"lower_price"`
	UpperPrice          float64 `json:"upper_price"`
	TotalLiquidityBase  float64 `json:"total_liquidity_base"`
	TotalLiquidityQuote float64 `json:"total_liquidity_quote"`
	UnclaimedFeesBase   float64 `json:"unclaimed_fees_base"`
	UnclaimedFeesQuote  float64 `json:"unclaimed_fees_quote"`
	Bins                []Bin   `json:"bins,omitempty"`
}

// RebalanceResult is the advisor's verdict for one position.
type RebalanceResult struct {
	ShouldRebalance bool    `json:"should_rebalance"`
	Reason          string  `json:"reason,omitempty"`
	CurrentPrice    float64 `json:"current_price"`
	ActiveBinID     int32   `json:"active_bin_id"`
}
