package analytics

import (
	"github.com/ethereum/go-ethereum/common"
)

// Wrapped ether on mainnet, Arbitrum and Optimism is displayed as the native asset.
var wrappedEther = map[common.Address]struct{}{
	common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"): {},
	common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"): {},
	common.HexToAddress("0x4200000000000000000000000000000000000006"): {},
}

func isWrappedEther(address string) bool {
	if !common.IsHexAddress(address) {
		return false
	}
	_, ok := wrappedEther[common.HexToAddress(address)]
	return ok
}

// TokenSymbol returns the display symbol of a token.
func TokenSymbol(address, symbol string) string {
	if isWrappedEther(address) {
		return "ETH"
	}
	return symbol
}

// TokenName returns the display name of a token.
func TokenName(address, name string) string {
	if isWrappedEther(address) {
		return "Ether"
	}
	return name
}
