package engine

import (
	"fmt"
	"math"
)

const (
	// ReferenceBinID is the bin whose price is exactly 1: ids are unsigned
	// 24-bit values centered on 2^23.
	ReferenceBinID = 1 << 23

	maxBinID = 1<<24 - 1

	basisPointDivisor = 10_000

	// binBoundaryEpsilon absorbs float error when inverting the price
	// curve, so prices sitting exactly on a bin boundary land in that bin.
	binBoundaryEpsilon = 1e-9
)

// PriceForBin returns the price at binID for the given bin step:
// (1 + binStep/10000)^(binID - 2^23), computed in log space so wide index
// ranges do not lose precision to repeated multiplication.
func PriceForBin(binID int32, binStep uint16) (float64, error) {
	if binStep == 0 {
		return 0, fmt.Errorf("%w: bin step must be positive", ErrInvalidParameter)
	}
	if binID < 0 || binID > maxBinID {
		return 0, fmt.Errorf("%w: bin id %d out of range", ErrInvalidParameter, binID)
	}
	exponent := float64(binID - ReferenceBinID)
	return math.Exp(exponent * math.Log1p(float64(binStep)/basisPointDivisor)), nil
}

// BinForPrice returns the bin containing price. With roundUp false the
// result is the exact inverse of PriceForBin at bin boundaries; with
// roundUp true, boundary prices still invert exactly and any price between
// boundaries maps to the next bin up.
func BinForPrice(price float64, binStep uint16, roundUp bool) (int32, error) {
	if binStep == 0 {
		return 0, fmt.Errorf("%w: bin step must be positive", ErrInvalidParameter)
	}
	if price <= 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return 0, fmt.Errorf("%w: price %v must be positive and finite", ErrInvalidParameter, price)
	}

	raw := math.Log(price) / math.Log1p(float64(binStep)/basisPointDivisor)
	nearest := math.Round(raw)
	switch {
	case math.Abs(raw-nearest) < binBoundaryEpsilon:
		raw = nearest
	case roundUp:
		raw = math.Ceil(raw)
	default:
		raw = math.Floor(raw)
	}

	id := int64(raw) + ReferenceBinID
	if id < 0 || id > maxBinID {
		return 0, fmt.Errorf("%w: price %v outside the representable bin range", ErrInvalidParameter, price)
	}
	return int32(id), nil
}
