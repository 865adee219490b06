package model

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Position is a user's deposited liquidity over a contiguous bin range,
// as supplied by the position-owning collaborator. The engine only reads it.
//
// Amount fields are raw integer token units rendered as decimal strings.
// Different position backends name the same amount differently, so every
// amount exposes an ordered set of alternative keys resolved through
// firstAmount; see Base/QuoteLiquidity and Base/QuoteFee.
type Position struct {
	ID         string         `json:"id"`
	Pool       common.Address `json:"pool"`
	LowerBinID *int32         `json:"lower_bin_id,omitempty"`
	UpperBinID *int32         `json:"upper_bin_id,omitempty"`

	LiquidityBase  string `json:"liquidity_base,omitempty"`
	TotalAmountX   string `json:"total_amount_x,omitempty"`
	LiquidityQuote string `json:"liquidity_quote,omitempty"`
	TotalAmountY   string `json:"total_amount_y,omitempty"`

	FeeBase  string `json:"fee_base,omitempty"`
	FeeX     string `json:"fee_x,omitempty"`
	FeeQuote string `json:"fee_quote,omitempty"`
	FeeY     string `json:"fee_y,omitempty"`

	Bins []PositionBinRecord `json:"bins,omitempty"`
}

// BaseLiquidity resolves the position-level base amount.
func (p Position) BaseLiquidity() (*big.Int, error) {
	return firstAmount(p.LiquidityBase, p.TotalAmountX)
}

// QuoteLiquidity resolves the position-level quote amount.
func (p Position) QuoteLiquidity() (*big.Int, error) {
	return firstAmount(p.LiquidityQuote, p.TotalAmountY)
}

// BaseFee resolves the position-level unclaimed base fee.
func (p Position) BaseFee() (*big.Int, error) {
	return firstAmount(p.FeeBase, p.FeeX)
}

// QuoteFee resolves the position-level unclaimed quote fee.
func (p Position) QuoteFee() (*big.Int, error) {
	return firstAmount(p.FeeQuote, p.FeeY)
}

// PositionBinRecord is one per-bin liquidity record attached to a position.
type PositionBinRecord struct {
	BinID int32 `json:"bin_id"`

	LiquidityBase string `json:"liquidity_base,omitempty"`
	AmountX       string `json:"amount_x,omitempty"`
	BaseAmount    string `json:"base_amount,omitempty"`

	LiquidityQuote string `json:"liquidity_quote,omitempty"`
	AmountY        string `json:"amount_y,omitempty"`
	QuoteAmount    string `json:"quote_amount,omitempty"`

	FeeBase  string `json:"fee_base,omitempty"`
	FeeX     string `json:"fee_x,omitempty"`
	FeeQuote string `json:"fee_quote,omitempty"`
	FeeY     string `json:"fee_y,omitempty"`
}

// BaseLiquidity resolves the per-bin base amount.
func (r PositionBinRecord) BaseLiquidity() (*big.Int, error) {
	return firstAmount(r.LiquidityBase, r.AmountX, r.BaseAmount)
}

// QuoteLiquidity resolves the per-bin quote amount.
func (r PositionBinRecord) QuoteLiquidity() (*big.Int, error) {
	return firstAmount(r.LiquidityQuote, r.AmountY, r.QuoteAmount)
}

// BaseFee resolves the per-bin unclaimed base fee.
func (r PositionBinRecord) BaseFee() (*big.Int, error) {
	return firstAmount(r.FeeBase, r.FeeX)
}

// QuoteFee resolves the per-bin unclaimed quote fee.
func (r PositionBinRecord) QuoteFee() (*big.Int, error) {
	return firstAmount(r.FeeQuote, r.FeeY)
}

// firstAmount returns the first non-empty candidate parsed as a big integer.
// All candidates empty resolves to zero rather than an error: absent fields
// mean the backend does not track that amount.
func firstAmount(candidates ...string) (*big.Int, error) {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		value, ok := new(big.Int).SetString(candidate, 10)
		if !ok {
			return nil, fmt.Errorf("invalid amount %q", candidate)
		}
		return value, nil
	}
	return big.NewInt(0), nil
}
