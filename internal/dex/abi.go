package dex

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const lbPairABIJSON = `[
  {"inputs": [], "name": "getBinStep", "outputs": [{"internalType": "uint16", "name": "binStep", "type": "uint16"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getActiveId", "outputs": [{"internalType": "uint24", "name": "activeId", "type": "uint24"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "uint24", "name": "id", "type": "uint24"}], "name": "getBin", "outputs": [{"internalType": "uint128", "name": "binReserveX", "type": "uint128"}, {"internalType": "uint128", "name": "binReserveY", "type": "uint128"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getTokenX", "outputs": [{"internalType": "address", "name": "tokenX", "type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getTokenY", "outputs": [{"internalType": "address", "name": "tokenY", "type": "address"}], "stateMutability": "view", "type": "function"}
]`

const erc20ABIJSON = `[
  {"inputs": [], "name": "decimals", "outputs": [{"type": "uint8"}], "stateMutability": "view", "type": "function"}
]`

var (
	lbPairABI     abi.ABI
	lbPairABIOnce sync.Once
	lbPairABIErr  error

	erc20ABI     abi.ABI
	erc20ABIOnce sync.Once
	erc20ABIErr  error
)

// LBPairABI returns the parsed Liquidity Book pair ABI.
func LBPairABI() (abi.ABI, error) {
	lbPairABIOnce.Do(func() {
		lbPairABI, lbPairABIErr = abi.JSON(strings.NewReader(lbPairABIJSON))
	})
	return lbPairABI, lbPairABIErr
}

// ERC20ABI returns the parsed ERC20 metadata ABI.
func ERC20ABI() (abi.ABI, error) {
	erc20ABIOnce.Do(func() {
		erc20ABI, erc20ABIErr = abi.JSON(strings.NewReader(erc20ABIJSON))
	})
	return erc20ABI, erc20ABIErr
}
