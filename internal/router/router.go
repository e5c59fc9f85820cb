package router

import (
	"fmt"
	"math/big"

	"chainscope/internal/dex"
	"chainscope/internal/model"
)

const (
	defaultMaxHops    = 3
	defaultMaxResults = 3
)

// Options bounds the route search. Zero values take the defaults.
type Options struct {
	MaxHops       int
	MaxNumResults int
}

// BestTradeExactIn searches the supplied liquidity snapshot for the
// best routes converting inputAmount of inputToken into outputToken.
// It is a pure function over the snapshot: callers must refresh
// reserves before every invocation. Results are ranked best-first and
// capped at MaxNumResults; an empty slice means no route exists within
// the hop budget. Invalid arguments are caller bugs and fail loudly.
func BestTradeExactIn(pairs []model.PairLiquidity, inputToken model.TokenRef, inputAmount *big.Int, outputToken model.TokenRef, opts Options) ([]model.Trade, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("router: no pairs supplied")
	}
	if inputAmount == nil || inputAmount.Sign() <= 0 {
		return nil, fmt.Errorf("router: input amount must be positive")
	}
	if inputToken.Equal(outputToken) {
		return nil, fmt.Errorf("router: input and output tokens are identical")
	}
	if opts.MaxHops == 0 {
		opts.MaxHops = defaultMaxHops
	}
	if opts.MaxNumResults == 0 {
		opts.MaxNumResults = defaultMaxResults
	}
	if opts.MaxHops < 1 {
		return nil, fmt.Errorf("router: max hops must be at least 1, got %d", opts.MaxHops)
	}
	if opts.MaxNumResults < 1 {
		return nil, fmt.Errorf("router: max results must be at least 1, got %d", opts.MaxNumResults)
	}

	s := &search{
		inputToken:  inputToken,
		inputAmount: inputAmount,
		outputToken: outputToken,
		maxResults:  opts.MaxNumResults,
	}
	s.explore(pairs, inputToken, inputAmount, opts.MaxHops, nil)
	return s.best, nil
}

type search struct {
	inputToken  model.TokenRef
	inputAmount *big.Int
	outputToken model.TokenRef
	maxResults  int
	best        []model.Trade
}

// explore advances the frontier token through every pair that can
// extend the current path. A pool is used at most once per path, in
// either direction, so routes cannot cycle.
func (s *search) explore(pairs []model.PairLiquidity, frontier model.TokenRef, amount *big.Int, hopsLeft int, path []model.PairLiquidity) {
	for i, pair := range pairs {
		if !pair.AToken.Equal(frontier) {
			continue
		}
		if pair.ATokenPool == nil || pair.BTokenPool == nil || pair.ATokenPool.Sign() == 0 || pair.BTokenPool.Sign() == 0 {
			// Degenerate pool: the formula would divide by zero or
			// quote a meaningless price.
			continue
		}

		output := FindSwapOutput(amount, pair.ATokenPool, pair.BTokenPool, dex.Fee(pair.DexType))
		if output.Sign() <= 0 {
			continue
		}

		route := make([]model.PairLiquidity, len(path), len(path)+1)
		copy(route, path)
		route = append(route, pair)

		if pair.BToken.Equal(s.outputToken) {
			s.insert(model.Trade{
				Type:         model.TradeTypeExactInput,
				Route:        route,
				InputToken:   s.inputToken,
				InputAmount:  s.inputAmount,
				OutputToken:  s.outputToken,
				OutputAmount: output,
			})
			continue
		}

		if hopsLeft > 1 && len(pairs) > 1 {
			s.explore(excludingPool(pairs, pairs[i].DexContract), pair.BToken, output, hopsLeft-1, route)
		}
	}
}

// insert keeps best sorted and capped: a bounded sorted-insert instead
// of sort-at-end keeps the recursion's working set small.
func (s *search) insert(trade model.Trade) {
	position := len(s.best)
	for i, existing := range s.best {
		if compareTrades(trade, existing) < 0 {
			position = i
			break
		}
	}
	if position >= s.maxResults {
		return
	}
	s.best = append(s.best, model.Trade{})
	copy(s.best[position+1:], s.best[position:])
	s.best[position] = trade
	if len(s.best) > s.maxResults {
		s.best = s.best[:s.maxResults]
	}
}

// excludingPool filters out both directed edges of a pool.
func excludingPool(pairs []model.PairLiquidity, contract string) []model.PairLiquidity {
	rest := make([]model.PairLiquidity, 0, len(pairs)-1)
	for _, pair := range pairs {
		if pair.DexContract == contract {
			continue
		}
		rest = append(rest, pair)
	}
	return rest
}
