package dex

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"binscope/internal/chain"
	"binscope/internal/engine"
	"binscope/internal/model"
)

// PairReader reads Liquidity Book pair state over eth_call. It implements
// the engine's PoolReader and DecimalsSource capabilities.
type PairReader struct {
	chain  *chain.Client
	logger *zap.Logger
}

func NewPairReader(chainClient *chain.Client, logger *zap.Logger) *PairReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PairReader{chain: chainClient, logger: logger}
}

// PoolInfo loads the pair's bin step and token addresses. An address with
// no deployed code is an invalid pool; a deployed contract that does not
// answer the pair interface is an invalid pool account.
func (r *PairReader) PoolInfo(ctx context.Context, pool common.Address) (model.Pool, error) {
	code, err := r.chain.CodeAt(ctx, pool)
	if err != nil {
		return model.Pool{}, wrapCallError(fmt.Errorf("code at %s: %w", pool.Hex(), err))
	}
	if len(code) == 0 {
		return model.Pool{}, fmt.Errorf("%w: no contract at %s", engine.ErrInvalidPool, pool.Hex())
	}

	pairABI, err := LBPairABI()
	if err != nil {
		return model.Pool{}, fmt.Errorf("parse pair abi: %w", err)
	}

	values, err := r.callPair(ctx, pool, pairABI, "getBinStep")
	if err != nil {
		return model.Pool{}, asPoolAccountError(pool, err)
	}
	binStep, err := asUint16(values[0])
	if err != nil {
		return model.Pool{}, fmt.Errorf("%w: bin step: %v", engine.ErrInvalidPoolAccount, err)
	}
	if binStep == 0 {
		return model.Pool{}, fmt.Errorf("%w: %s reports zero bin step", engine.ErrInvalidPoolAccount, pool.Hex())
	}

	values, err = r.callPair(ctx, pool, pairABI, "getTokenX")
	if err != nil {
		return model.Pool{}, asPoolAccountError(pool, err)
	}
	tokenX, err := asAddress(values[0])
	if err != nil {
		return model.Pool{}, fmt.Errorf("%w: token x: %v", engine.ErrInvalidPoolAccount, err)
	}

	values, err = r.callPair(ctx, pool, pairABI, "getTokenY")
	if err != nil {
		return model.Pool{}, asPoolAccountError(pool, err)
	}
	tokenY, err := asAddress(values[0])
	if err != nil {
		return model.Pool{}, fmt.Errorf("%w: token y: %v", engine.ErrInvalidPoolAccount, err)
	}

	r.logger.Debug("pair loaded",
		zap.String("pool", pool.Hex()),
		zap.Uint16("bin_step", binStep),
		zap.String("token_x", tokenX.Hex()),
		zap.String("token_y", tokenY.Hex()),
	)

	return model.Pool{
		Address:    pool,
		BinStep:    binStep,
		BaseToken:  tokenX,
		QuoteToken: tokenY,
	}, nil
}

// ActiveBinID returns the pair's current active bin id.
func (r *PairReader) ActiveBinID(ctx context.Context, pool common.Address) (int32, error) {
	pairABI, err := LBPairABI()
	if err != nil {
		return 0, fmt.Errorf("parse pair abi: %w", err)
	}

	values, err := r.callPair(ctx, pool, pairABI, "getActiveId")
	if err != nil {
		return 0, asPoolAccountError(pool, err)
	}
	id, err := asBigInt(values[0])
	if err != nil {
		return 0, fmt.Errorf("%w: active id: %v", engine.ErrInvalidPoolAccount, err)
	}
	return int32(id.Uint64()), nil
}

// BinReserves fetches raw reserves for an inclusive id window, ascending.
// TODO: batch the per-bin calls through Multicall3 when wide windows start
// dominating watch latency.
func (r *PairReader) BinReserves(ctx context.Context, pool common.Address, fromID, toID int32) ([]model.RawBin, error) {
	pairABI, err := LBPairABI()
	if err != nil {
		return nil, fmt.Errorf("parse pair abi: %w", err)
	}

	bins := make([]model.RawBin, 0, toID-fromID+1)
	for id := fromID; id <= toID; id++ {
		values, err := r.callPair(ctx, pool, pairABI, "getBin", big.NewInt(int64(id)))
		if err != nil {
			return nil, asPoolAccountError(pool, err)
		}
		reserveX, err := asBigInt(values[0])
		if err != nil {
			return nil, fmt.Errorf("%w: bin %d reserve x: %v", engine.ErrInvalidPoolAccount, id, err)
		}
		reserveY, err := asBigInt(values[1])
		if err != nil {
			return nil, fmt.Errorf("%w: bin %d reserve y: %v", engine.ErrInvalidPoolAccount, id, err)
		}
		bins = append(bins, model.RawBin{BinID: id, ReserveBase: reserveX, ReserveQuote: reserveY})
	}
	return bins, nil
}

// Decimals loads an ERC20 token's decimal precision.
func (r *PairReader) Decimals(ctx context.Context, asset common.Address) (uint8, error) {
	tokenABI, err := ERC20ABI()
	if err != nil {
		return 0, fmt.Errorf("parse erc20 abi: %w", err)
	}

	values, err := r.callPair(ctx, asset, tokenABI, "decimals")
	if err != nil {
		return 0, wrapCallError(fmt.Errorf("decimals of %s: %w", asset.Hex(), err))
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		return 0, fmt.Errorf("decimals of %s: %w", asset.Hex(), err)
	}
	return decimals, nil
}

func (r *PairReader) callPair(ctx context.Context, target common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &target, Data: data}
	resp, err := r.chain.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, &unpackError{method: method, err: err}
	}
	return values, nil
}

// unpackError marks responses that did not match the pair interface.
type unpackError struct {
	method string
	err    error
}

func (e *unpackError) Error() string {
	return fmt.Sprintf("unpack %s: %v", e.method, e.err)
}

// asPoolAccountError classifies a pair call failure: malformed responses
// mean the account is not a pair, everything else is a transient lookup
// failure.
func asPoolAccountError(pool common.Address, err error) error {
	var unpack *unpackError
	if errors.As(err, &unpack) {
		return fmt.Errorf("%w: pool %s: %v", engine.ErrInvalidPoolAccount, pool.Hex(), err)
	}
	return wrapCallError(fmt.Errorf("pool %s: %w", pool.Hex(), err))
}

func wrapCallError(err error) error {
	return fmt.Errorf("%w: %v", engine.ErrLookupFailed, err)
}
