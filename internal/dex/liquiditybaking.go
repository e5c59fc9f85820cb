package dex

import (
	"context"
	"fmt"

	"chainscope/internal/model"
)

// Liquidity Baking is a single protocol-subsidized tez/tzBTC pool.
const (
	LiquidityBakingContract = "KT1TxqZ8QtKvLu3V3JH7Gx58n7Co8pgtpQU5"
	liquidityBakingToken    = "KT1PWx2mnDueood7fEmfbBDKx1D9BAnnXitn"
)

// LiquidityBakingSource reads the Liquidity Baking CPMM reserves.
type LiquidityBakingSource struct {
	reader   StorageReader
	contract string
	token    model.TokenRef
}

// NewLiquidityBakingSource builds the source for the mainnet CPMM.
func NewLiquidityBakingSource(reader StorageReader) *LiquidityBakingSource {
	return &LiquidityBakingSource{
		reader:   reader,
		contract: LiquidityBakingContract,
		token:    model.ContractToken(liquidityBakingToken, nil),
	}
}

func (s *LiquidityBakingSource) Pairs(ctx context.Context) ([]model.PairLiquidity, error) {
	storage, err := s.reader.ContractStorage(ctx, s.contract)
	if err != nil {
		return nil, fmt.Errorf("liquidity baking %s: %w", s.contract, err)
	}
	xtzPool, ok := findIntByAnnot(storage, "%xtzPool")
	if !ok {
		return nil, fmt.Errorf("liquidity baking %s: xtzPool not found in storage", s.contract)
	}
	tokenPool, ok := findIntByAnnot(storage, "%tokenPool")
	if !ok {
		return nil, fmt.Errorf("liquidity baking %s: tokenPool not found in storage", s.contract)
	}
	return bothDirections(model.PairLiquidity{
		Pair: model.Pair{
			AToken:      model.NativeToken(),
			BToken:      s.token,
			DexType:     model.DexTypeLiquidityBaking,
			DexContract: s.contract,
		},
		ATokenPool: xtzPool,
		BTokenPool: tokenPool,
	}), nil
}
