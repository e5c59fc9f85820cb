package rpc

import (
	"context"
	"sync"
	"time"

	"chainscope/internal/metrics"
)

// headCache memoizes the head block header for a short TTL. The mutex
// is held across the refresh so concurrent callers inside the window
// share one upstream fetch instead of stampeding the node.
type headCache struct {
	mu        sync.Mutex
	header    BlockHeader
	fetchedAt time.Time
	ttl       time.Duration
}

// BlockHeader returns the head header, served from the TTL cache when
// fresh.
func (c *FallbackClient) BlockHeader(ctx context.Context) (BlockHeader, error) {
	c.headCache.mu.Lock()
	defer c.headCache.mu.Unlock()

	if c.headCache.header.Hash != "" && time.Since(c.headCache.fetchedAt) < c.headCache.ttl {
		metrics.HeadCacheHitsTotal.Inc()
		return c.headCache.header, nil
	}

	var header BlockHeader
	err := c.callWithFallback(ctx, "block_header", func(ctx context.Context, e Endpoint) error {
		value, err := e.BlockHeader(ctx)
		if err == nil {
			header = value
		}
		return err
	})
	if err != nil {
		return BlockHeader{}, err
	}

	c.headCache.header = header
	c.headCache.fetchedAt = time.Now()
	return header, nil
}
