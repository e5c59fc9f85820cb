package model

import "math/big"

// DexType identifies the decentralized exchange a pair belongs to.
type DexType string

const (
	DexTypeQuipuSwap       DexType = "quipuswap"
	DexTypePlenty          DexType = "plenty"
	DexTypeLiquidityBaking DexType = "liquidity_baking"
)

// Pair is a directed pool edge: swapping AToken for BToken through the
// dex contract. Each on-chain pool contributes two Pair values, one per
// direction.
type Pair struct {
	AToken      TokenRef `json:"a_token"`
	BToken      TokenRef `json:"b_token"`
	DexType     DexType  `json:"dex_type"`
	DexContract string   `json:"dex_contract"`
}

// PairLiquidity is a pair plus its reserves as read at query time.
// Reserves are never cached across router invocations: stale reserves
// make the constant-product quote financially wrong.
type PairLiquidity struct {
	Pair
	ATokenPool *big.Int `json:"a_token_pool"`
	BTokenPool *big.Int `json:"b_token_pool"`
}

// Inverted returns the same pool edge in the opposite direction.
func (p PairLiquidity) Inverted() PairLiquidity {
	return PairLiquidity{
		Pair: Pair{
			AToken:      p.BToken,
			BToken:      p.AToken,
			DexType:     p.DexType,
			DexContract: p.DexContract,
		},
		ATokenPool: p.BTokenPool,
		BTokenPool: p.ATokenPool,
	}
}
