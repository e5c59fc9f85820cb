package dex

import (
	"context"
	"fmt"

	"chainscope/internal/model"
)

// PlentyPool is one Plenty token/token dex contract.
type PlentyPool struct {
	Contract string         `json:"contract"`
	Token1   model.TokenRef `json:"token1"`
	Token2   model.TokenRef `json:"token2"`
}

// PlentySource reads Plenty pool reserves.
type PlentySource struct {
	reader StorageReader
	pools  []PlentyPool
}

// NewPlentySource builds a source over the configured pools.
func NewPlentySource(reader StorageReader, pools []PlentyPool) *PlentySource {
	return &PlentySource{reader: reader, pools: pools}
}

func (s *PlentySource) Pairs(ctx context.Context) ([]model.PairLiquidity, error) {
	var all []model.PairLiquidity
	for _, pool := range s.pools {
		storage, err := s.reader.ContractStorage(ctx, pool.Contract)
		if err != nil {
			return nil, fmt.Errorf("plenty %s: %w", pool.Contract, err)
		}
		token1Pool, ok := findIntByAnnot(storage, "%token1_pool")
		if !ok {
			return nil, fmt.Errorf("plenty %s: token1_pool not found in storage", pool.Contract)
		}
		token2Pool, ok := findIntByAnnot(storage, "%token2_pool")
		if !ok {
			return nil, fmt.Errorf("plenty %s: token2_pool not found in storage", pool.Contract)
		}
		all = append(all, bothDirections(model.PairLiquidity{
			Pair: model.Pair{
				AToken:      pool.Token1,
				BToken:      pool.Token2,
				DexType:     model.DexTypePlenty,
				DexContract: pool.Contract,
			},
			ATokenPool: token1Pool,
			BTokenPool: token2Pool,
		})...)
	}
	return all, nil
}
