package router

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"chainscope/internal/dex"
	"chainscope/internal/model"
)

var (
	tokenOne = model.ContractToken("KT1AaaAaaAaaAaaAaaAaaAaaAaaAaaAaaAaa", nil)
	tokenTwo = model.ContractToken("KT1BbbBbbBbbBbbBbbBbbBbbBbbBbbBbbBbb", big.NewInt(0))
)

func pool(contract string, a, b model.TokenRef, aReserve, bReserve int64) model.PairLiquidity {
	return model.PairLiquidity{
		Pair: model.Pair{
			AToken:      a,
			BToken:      b,
			DexType:     model.DexTypeQuipuSwap,
			DexContract: contract,
		},
		ATokenPool: big.NewInt(aReserve),
		BTokenPool: big.NewInt(bReserve),
	}
}

func TestFindSwapOutputExact(t *testing.T) {
	fee := dex.FeeFraction{Numerator: 997, Denominator: 1000}
	output := FindSwapOutput(big.NewInt(1000), big.NewInt(100000), big.NewInt(50000), fee)
	// floor(1000*997*50000 / (100000*1000 + 1000*997)) = floor(49850000000 / 100997000)
	require.Equal(t, int64(493), output.Int64())
}

func TestBestTradeDirect(t *testing.T) {
	pairs := []model.PairLiquidity{
		pool("KT1Direct", model.NativeToken(), tokenTwo, 1000, 1000),
	}
	trades, err := BestTradeExactIn(pairs, model.NativeToken(), big.NewInt(100), tokenTwo, Options{})
	require.NoError(t, err)
	require.Len(t, trades, 1)
	require.Equal(t, int64(90), trades[0].OutputAmount.Int64())
	require.NoError(t, trades[0].Validate())
}

func TestBestTradePrefersBetterMultiHop(t *testing.T) {
	pairs := []model.PairLiquidity{
		pool("KT1Direct", model.NativeToken(), tokenTwo, 1000, 1000),
		pool("KT1HopA", model.NativeToken(), tokenOne, 1000000, 1000000),
		pool("KT1HopB", tokenOne, tokenTwo, 1000000, 1000000),
	}
	trades, err := BestTradeExactIn(pairs, model.NativeToken(), big.NewInt(100), tokenTwo, Options{MaxHops: 3, MaxNumResults: 3})
	require.NoError(t, err)
	require.Len(t, trades, 2)

	// The deep pools beat the shallow direct pool despite the extra hop.
	require.Equal(t, int64(98), trades[0].OutputAmount.Int64())
	require.Len(t, trades[0].Route, 2)
	require.Equal(t, int64(90), trades[1].OutputAmount.Int64())
	require.Len(t, trades[1].Route, 1)

	for _, trade := range trades {
		require.NoError(t, trade.Validate())
	}
}

func TestBestTradeHopBudget(t *testing.T) {
	pairs := []model.PairLiquidity{
		pool("KT1HopA", model.NativeToken(), tokenOne, 1000000, 1000000),
		pool("KT1HopB", tokenOne, tokenTwo, 1000000, 1000000),
	}
	trades, err := BestTradeExactIn(pairs, model.NativeToken(), big.NewInt(100), tokenTwo, Options{MaxHops: 1})
	require.NoError(t, err)
	require.Empty(t, trades, "two-hop route must not appear under a one-hop budget")
}

func TestBestTradeRouteContinuityAndNoPoolReuse(t *testing.T) {
	pairs := []model.PairLiquidity{
		pool("KT1HopA", model.NativeToken(), tokenOne, 1000000, 1000000),
		pool("KT1HopA", tokenOne, model.NativeToken(), 1000000, 1000000),
		pool("KT1HopB", tokenOne, tokenTwo, 1000000, 1000000),
		pool("KT1HopB", tokenTwo, tokenOne, 1000000, 1000000),
	}
	trades, err := BestTradeExactIn(pairs, model.NativeToken(), big.NewInt(500), tokenTwo, Options{MaxHops: 4, MaxNumResults: 5})
	require.NoError(t, err)
	require.NotEmpty(t, trades)

	for _, trade := range trades {
		require.NoError(t, trade.Validate())
		seen := map[string]bool{}
		for _, hop := range trade.Route {
			require.False(t, seen[hop.DexContract], "pool %s reused in route", hop.DexContract)
			seen[hop.DexContract] = true
		}
	}
}

func TestBestTradeSkipsDrainedPools(t *testing.T) {
	pairs := []model.PairLiquidity{
		pool("KT1Empty", model.NativeToken(), tokenTwo, 0, 1000),
	}
	trades, err := BestTradeExactIn(pairs, model.NativeToken(), big.NewInt(100), tokenTwo, Options{})
	require.NoError(t, err)
	require.Empty(t, trades)
}

func TestBestTradeResultCap(t *testing.T) {
	pairs := []model.PairLiquidity{
		pool("KT1PoolA", model.NativeToken(), tokenTwo, 1000000, 1000000),
		pool("KT1PoolB", model.NativeToken(), tokenTwo, 900000, 900000),
		pool("KT1PoolC", model.NativeToken(), tokenTwo, 800000, 800000),
	}
	trades, err := BestTradeExactIn(pairs, model.NativeToken(), big.NewInt(100), tokenTwo, Options{MaxNumResults: 2})
	require.NoError(t, err)
	require.Len(t, trades, 2)
	require.True(t, trades[0].OutputAmount.Cmp(trades[1].OutputAmount) >= 0)
}

func TestBestTradePreconditions(t *testing.T) {
	pairs := []model.PairLiquidity{
		pool("KT1PoolA", model.NativeToken(), tokenTwo, 1000, 1000),
	}

	_, err := BestTradeExactIn(nil, model.NativeToken(), big.NewInt(1), tokenTwo, Options{})
	require.Error(t, err)

	_, err = BestTradeExactIn(pairs, model.NativeToken(), big.NewInt(0), tokenTwo, Options{})
	require.Error(t, err)

	_, err = BestTradeExactIn(pairs, model.NativeToken(), big.NewInt(1), tokenTwo, Options{MaxHops: -1})
	require.Error(t, err)

	_, err = BestTradeExactIn(pairs, model.NativeToken(), big.NewInt(1), model.NativeToken(), Options{})
	require.Error(t, err)
}

func trade(input, output int64, hops int) model.Trade {
	route := make([]model.PairLiquidity, hops)
	return model.Trade{
		Type:         model.TradeTypeExactInput,
		Route:        route,
		InputToken:   model.NativeToken(),
		InputAmount:  big.NewInt(input),
		OutputToken:  tokenTwo,
		OutputAmount: big.NewInt(output),
	}
}

func TestCompareTradesOrdering(t *testing.T) {
	moreOutput, err := CompareTrades(trade(10, 100, 1), trade(10, 90, 1))
	require.NoError(t, err)
	require.Negative(t, moreOutput, "higher output ranks first")

	lessInput, err := CompareTrades(trade(5, 100, 1), trade(10, 100, 1))
	require.NoError(t, err)
	require.Negative(t, lessInput, "lower input ranks first on equal output")

	shorterRoute, err := CompareTrades(trade(10, 100, 1), trade(10, 100, 2))
	require.NoError(t, err)
	require.Negative(t, shorterRoute, "shorter route ranks first on full tie")

	equal, err := CompareTrades(trade(10, 100, 2), trade(10, 100, 2))
	require.NoError(t, err)
	require.Zero(t, equal)
}

func TestCompareTradesRejectsMismatchedTokens(t *testing.T) {
	a := trade(10, 100, 1)
	b := trade(10, 100, 1)
	b.OutputToken = tokenOne
	_, err := CompareTrades(a, b)
	require.Error(t, err)
}

func TestIsTradeBetterThreshold(t *testing.T) {
	current := trade(100, 1000, 1)

	within := trade(100, 1004, 2)
	better, err := IsTradeBetter(&within, &current)
	require.NoError(t, err)
	require.False(t, better, "a 0.4%% edge does not justify an extra hop")

	beyond := trade(100, 1006, 2)
	better, err = IsTradeBetter(&beyond, &current)
	require.NoError(t, err)
	require.True(t, better)
}

func TestIsTradeBetterPresence(t *testing.T) {
	only := trade(100, 1000, 1)

	better, err := IsTradeBetter(&only, nil)
	require.NoError(t, err)
	require.True(t, better, "presence beats absence")

	better, err = IsTradeBetter(nil, &only)
	require.NoError(t, err)
	require.False(t, better)
}
