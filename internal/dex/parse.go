package dex

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ABI unpacking yields loosely typed values; these coercions keep the
// reader tolerant of the integer widths different pair versions report.

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func asUint16(value interface{}) (uint16, error) {
	i, err := asBigInt(value)
	if err != nil {
		return 0, err
	}
	if !i.IsUint64() || i.Uint64() > 1<<16-1 {
		return 0, fmt.Errorf("uint16 overflow: %s", i)
	}
	return uint16(i.Uint64()), nil
}

func asUint8(value interface{}) (uint8, error) {
	i, err := asBigInt(value)
	if err != nil {
		return 0, err
	}
	if !i.IsUint64() || i.Uint64() > 1<<8-1 {
		return 0, fmt.Errorf("uint8 overflow: %s", i)
	}
	return uint8(i.Uint64()), nil
}
