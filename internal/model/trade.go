package model

import (
	"fmt"
	"math/big"
)

// TradeType distinguishes fixed-input from fixed-output trades.
// Only exact-input trades are supported.
type TradeType string

// TradeTypeExactInput fixes the input amount and maximizes output.
const TradeTypeExactInput TradeType = "exact_input"

// Trade is a candidate swap: an ordered route of pools together with
// the input spent and the output it yields.
type Trade struct {
	Type         TradeType       `json:"type"`
	Route        []PairLiquidity `json:"route"`
	InputToken   TokenRef        `json:"input_token"`
	InputAmount  *big.Int        `json:"input_amount"`
	OutputToken  TokenRef        `json:"output_token"`
	OutputAmount *big.Int        `json:"output_amount"`
}

// Validate checks the route-continuity invariants: consecutive pairs
// chain bToken->aToken, and the route endpoints match the trade's
// input and output tokens.
func (t Trade) Validate() error {
	if len(t.Route) == 0 {
		return fmt.Errorf("trade has empty route")
	}
	if !t.Route[0].AToken.Equal(t.InputToken) {
		return fmt.Errorf("route starts at %s, trade input is %s", t.Route[0].AToken, t.InputToken)
	}
	last := t.Route[len(t.Route)-1]
	if !last.BToken.Equal(t.OutputToken) {
		return fmt.Errorf("route ends at %s, trade output is %s", last.BToken, t.OutputToken)
	}
	for i := 0; i+1 < len(t.Route); i++ {
		if !t.Route[i].BToken.Equal(t.Route[i+1].AToken) {
			return fmt.Errorf("route discontinuity between hop %d and %d", i, i+1)
		}
	}
	return nil
}
