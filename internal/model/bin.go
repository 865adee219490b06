package model

import "math/big"

// Bin is one normalized liquidity bin of a pool.
// TotalLiquidity is the plain sum of both sides in human units; it is a
// display quantity, not a common-unit valuation.
type Bin struct {
	BinID          int32   `json:"bin_id"`
	Price          float64 `json:"price"`
	LiquidityBase  float64 `json:"liquidity_base"`
	LiquidityQuote float64 `json:"liquidity_quote"`
	TotalLiquidity float64 `json:"total_liquidity"`
	IsActive       bool    `json:"is_active"`
}

// RawBin carries on-chain bin reserves before decimal normalization.
type RawBin struct {
	BinID        int32
	ReserveBase  *big.Int
	ReserveQuote *big.Int
}

// ActiveBin is the bin at the pool's current trading price.
// Raw reserves are kept alongside the normalized view.
type ActiveBin struct {
	BinID           int32    `json:"bin_id"`
	Price           float64  `json:"price"`
	ReserveBase     float64  `json:"reserve_base"`
	ReserveQuote    float64  `json:"reserve_quote"`
	RawReserveBase  *big.Int `json:"-"`
	RawReserveQuote *big.Int `json:"-"`
}
