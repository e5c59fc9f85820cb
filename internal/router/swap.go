// Package router searches liquidity pairs for the best exact-input
// trade route.
package router

import (
	"math/big"

	"chainscope/internal/dex"
)

// FindSwapOutput prices one hop with the constant-product formula, fee
// deducted from the input leg:
//
//	out = floor(in * feeNum * outReserve / (inReserve * feeDen + in * feeNum))
//
// The result is exact integer floor division, matching the on-chain
// arithmetic of each DEX.
func FindSwapOutput(input, inputReserve, outputReserve *big.Int, fee dex.FeeFraction) *big.Int {
	feeNumerator := big.NewInt(fee.Numerator)
	feeDenominator := big.NewInt(fee.Denominator)

	inputWithFee := new(big.Int).Mul(input, feeNumerator)
	numerator := new(big.Int).Mul(inputWithFee, outputReserve)
	denominator := new(big.Int).Mul(inputReserve, feeDenominator)
	denominator.Add(denominator, inputWithFee)

	if denominator.Sign() == 0 {
		return big.NewInt(0)
	}
	return numerator.Quo(numerator, denominator)
}
