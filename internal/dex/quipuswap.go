package dex

import (
	"context"
	"fmt"

	"chainscope/internal/model"
)

// QuipuPool is one QuipuSwap tez/token dex contract.
type QuipuPool struct {
	Contract string         `json:"contract"`
	Token    model.TokenRef `json:"token"`
}

// QuipuSwapSource reads QuipuSwap pool reserves. Each pool yields the
// tez->token and token->tez edges.
type QuipuSwapSource struct {
	reader StorageReader
	pools  []QuipuPool
}

// NewQuipuSwapSource builds a source over the configured pools.
func NewQuipuSwapSource(reader StorageReader, pools []QuipuPool) *QuipuSwapSource {
	return &QuipuSwapSource{reader: reader, pools: pools}
}

func (s *QuipuSwapSource) Pairs(ctx context.Context) ([]model.PairLiquidity, error) {
	var all []model.PairLiquidity
	for _, pool := range s.pools {
		storage, err := s.reader.ContractStorage(ctx, pool.Contract)
		if err != nil {
			return nil, fmt.Errorf("quipuswap %s: %w", pool.Contract, err)
		}
		tezPool, ok := findIntByAnnot(storage, "%tez_pool")
		if !ok {
			return nil, fmt.Errorf("quipuswap %s: tez_pool not found in storage", pool.Contract)
		}
		tokenPool, ok := findIntByAnnot(storage, "%token_pool")
		if !ok {
			return nil, fmt.Errorf("quipuswap %s: token_pool not found in storage", pool.Contract)
		}
		all = append(all, bothDirections(model.PairLiquidity{
			Pair: model.Pair{
				AToken:      model.NativeToken(),
				BToken:      pool.Token,
				DexType:     model.DexTypeQuipuSwap,
				DexContract: pool.Contract,
			},
			ATokenPool: tezPool,
			BTokenPool: tokenPool,
		})...)
	}
	return all, nil
}
