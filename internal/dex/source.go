package dex

import (
	"context"
	"math/big"
	"strings"

	"chainscope/internal/micheline"
	"chainscope/internal/model"
)

// StorageReader reads contract storage at head. *rpc.FallbackClient
// satisfies it.
type StorageReader interface {
	ContractStorage(ctx context.Context, contract string) (micheline.Node, error)
}

// PairSource yields the current liquidity pairs of one DEX. Reserves
// are read fresh on every call: the router's quotes are only correct
// against live reserves.
type PairSource interface {
	Pairs(ctx context.Context) ([]model.PairLiquidity, error)
}

// FetchAllPairs gathers pairs from every source. A failing source
// fails the whole read: quoting against a partial pool set would
// silently hide better routes.
func FetchAllPairs(ctx context.Context, sources ...PairSource) ([]model.PairLiquidity, error) {
	var all []model.PairLiquidity
	for _, source := range sources {
		pairs, err := source.Pairs(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, pairs...)
	}
	return all, nil
}

// bothDirections expands one pool into its two directed edges.
func bothDirections(pair model.PairLiquidity) []model.PairLiquidity {
	return []model.PairLiquidity{pair, pair.Inverted()}
}

// findIntByAnnot walks a storage expression for an int literal whose
// node carries the given field annotation. Normalized storage keeps
// annotations, so reserve fields are located by name instead of by
// brittle positional paths.
func findIntByAnnot(node micheline.Node, annot string) (*big.Int, bool) {
	if hasAnnot(node, annot) {
		if value, ok := node.BigInt(); ok {
			return value, true
		}
	}
	for _, arg := range node.Args {
		if value, ok := findIntByAnnot(arg, annot); ok {
			return value, true
		}
	}
	for _, item := range node.Seq {
		if value, ok := findIntByAnnot(item, annot); ok {
			return value, true
		}
	}
	return nil, false
}

func hasAnnot(node micheline.Node, annot string) bool {
	for _, a := range node.Annots {
		if strings.TrimPrefix(a, "%") == strings.TrimPrefix(annot, "%") {
			return true
		}
	}
	return false
}
