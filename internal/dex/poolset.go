package dex

import (
	"encoding/json"
	"fmt"
	"os"
)

// PoolSet is the on-disk pool catalogue the quote command loads.
type PoolSet struct {
	QuipuSwap       []QuipuPool  `json:"quipuswap,omitempty"`
	Plenty          []PlentyPool `json:"plenty,omitempty"`
	LiquidityBaking bool         `json:"liquidity_baking,omitempty"`
}

// LoadPoolSet reads a pool catalogue file and binds it to a reader.
func LoadPoolSet(path string, reader StorageReader) ([]PairSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool set: %w", err)
	}
	var set PoolSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse pool set: %w", err)
	}

	var sources []PairSource
	if len(set.QuipuSwap) > 0 {
		sources = append(sources, NewQuipuSwapSource(reader, set.QuipuSwap))
	}
	if len(set.Plenty) > 0 {
		sources = append(sources, NewPlentySource(reader, set.Plenty))
	}
	if set.LiquidityBaking {
		sources = append(sources, NewLiquidityBakingSource(reader))
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("pool set %s defines no pools", path)
	}
	return sources, nil
}
