// Package dex reads on-chain pool state into the uniform pair shape
// the router consumes.
package dex

import "chainscope/internal/model"

// FeeFraction is a DEX fee expressed as the retained input fraction,
// e.g. 997/1000 for a 0.3% fee. The values must match each DEX's
// on-chain formula exactly: a wrong fee table produces silently wrong
// quotes.
type FeeFraction struct {
	Numerator   int64
	Denominator int64
}

var dexFees = map[model.DexType]FeeFraction{
	model.DexTypeQuipuSwap:       {Numerator: 997, Denominator: 1000},
	model.DexTypePlenty:          {Numerator: 9965, Denominator: 10000},
	model.DexTypeLiquidityBaking: {Numerator: 999, Denominator: 1000},
}

// Fee returns the fee fraction for a DEX. Unknown dex types get a
// zero-fee fraction, which is never correct for quoting; callers only
// pass pairs built by this package.
func Fee(dexType model.DexType) FeeFraction {
	if fee, ok := dexFees[dexType]; ok {
		return fee
	}
	return FeeFraction{Numerator: 1, Denominator: 1}
}
