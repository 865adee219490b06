package model

// BinSnapshot is one stored observation of a sampled bin, produced by the
// watch loop.
type BinSnapshot struct {
	Pool           string  `json:"pool"`
	BinID          int32   `json:"bin_id"`
	Price          float64 `json:"price"`
	LiquidityBase  float64 `json:"liquidity_base"`
	LiquidityQuote float64 `json:"liquidity_quote"`
	TotalLiquidity float64 `json:"total_liquidity"`
	IsActive       bool    `json:"is_active"`
	BlockNumber    uint64  `json:"block_number,omitempty"`
	ObservedAt     int64   `json:"observed_at"`
}
