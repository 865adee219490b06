package model

import "github.com/ethereum/go-ethereum/common"

// Pool captures immutable bin-pool parameters.
// BinStep is the proportional price increment between adjacent bins,
// in hundredths of a percent.
type Pool struct {
	Address    common.Address
	BinStep    uint16
	BaseToken  common.Address
	QuoteToken common.Address
}
