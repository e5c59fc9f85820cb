package router

import (
	"fmt"

	"github.com/shopspring/decimal"

	"chainscope/internal/model"
)

// betterTradeThreshold is the relative price edge a trade must exceed
// before it is preferred over one with fewer hops: a marginally better
// quote is not worth an extra hop's gas and slippage risk.
var betterTradeThreshold = decimal.RequireFromString("1.005")

// CompareTrades orders two trades over the same token pair: more
// output first, then less input, then the shorter route. Comparing
// trades over different token pairs is a programming error.
func CompareTrades(a, b model.Trade) (int, error) {
	if err := sameTokenPair(a, b); err != nil {
		return 0, err
	}
	return compareTrades(a, b), nil
}

// compareTrades assumes both trades share a token pair.
func compareTrades(a, b model.Trade) int {
	if cmp := b.OutputAmount.Cmp(a.OutputAmount); cmp != 0 {
		return cmp
	}
	if cmp := a.InputAmount.Cmp(b.InputAmount); cmp != 0 {
		return cmp
	}
	switch {
	case len(a.Route) < len(b.Route):
		return -1
	case len(a.Route) > len(b.Route):
		return 1
	default:
		return 0
	}
}

// IsTradeBetter reports whether candidate beats current by more than
// the fixed relative threshold on execution price. Presence beats
// absence on either side.
func IsTradeBetter(candidate, current *model.Trade) (bool, error) {
	if candidate == nil {
		return false, nil
	}
	if current == nil {
		return true, nil
	}
	if err := sameTokenPair(*candidate, *current); err != nil {
		return false, err
	}

	candidatePrice := executionPrice(*candidate)
	currentPrice := executionPrice(*current)
	return candidatePrice.GreaterThan(currentPrice.Mul(betterTradeThreshold)), nil
}

// executionPrice is output per unit input, the ranking measure for
// trades of the same size.
func executionPrice(trade model.Trade) decimal.Decimal {
	input := decimal.NewFromBigInt(trade.InputAmount, 0)
	if input.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(trade.OutputAmount, 0).Div(input)
}

func sameTokenPair(a, b model.Trade) error {
	if !a.InputToken.Equal(b.InputToken) {
		return fmt.Errorf("router: comparing trades with different input tokens: %s vs %s", a.InputToken, b.InputToken)
	}
	if !a.OutputToken.Equal(b.OutputToken) {
		return fmt.Errorf("router: comparing trades with different output tokens: %s vs %s", a.OutputToken, b.OutputToken)
	}
	return nil
}
