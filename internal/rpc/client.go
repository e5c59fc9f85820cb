// Package rpc provides a fallback client that fans node RPC calls
// across an ordered endpoint list with sticky last-good affinity.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chainscope/internal/metrics"
	"chainscope/internal/micheline"
)

// ErrNoEndpoints is returned by calls on a client with an empty
// endpoint list.
var ErrNoEndpoints = errors.New("rpc: no endpoints configured")

const defaultHeadTTL = 3 * time.Second

// FallbackClient implements the node RPC surface over N endpoints.
// Every method dispatches through callWithFallback: endpoints are
// tried starting from the last one that succeeded, wrapping around the
// list exactly once.
type FallbackClient struct {
	endpoints []Endpoint
	logger    *zap.Logger

	// preferred is the index tried first on the next call. Concurrent
	// calls may race on it; the race only affects which endpoint is
	// tried first, never correctness, so no lock is taken for it.
	preferred int

	headCache headCache
}

// Option configures a FallbackClient.
type Option func(*FallbackClient)

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *FallbackClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHeadTTL overrides the block-head cache TTL.
func WithHeadTTL(ttl time.Duration) Option {
	return func(c *FallbackClient) {
		c.headCache.ttl = ttl
	}
}

// NewFallbackClient builds a client over the given endpoints, tried in
// order.
func NewFallbackClient(endpoints []Endpoint, opts ...Option) *FallbackClient {
	client := &FallbackClient{
		endpoints: endpoints,
		logger:    zap.NewNop(),
		headCache: headCache{ttl: defaultHeadTTL},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// NewFallbackClientFromURLs builds a client with HTTP endpoints for
// each base URL.
func NewFallbackClientFromURLs(urls []string, httpClient *http.Client, opts ...Option) *FallbackClient {
	endpoints := make([]Endpoint, 0, len(urls))
	for _, u := range urls {
		endpoints = append(endpoints, NewHTTPEndpoint(u, httpClient))
	}
	return NewFallbackClient(endpoints, opts...)
}

// Balance reads a contract's spendable balance at head.
func (c *FallbackClient) Balance(ctx context.Context, address string) (*big.Int, error) {
	var balance *big.Int
	err := c.callWithFallback(ctx, "balance", func(ctx context.Context, e Endpoint) error {
		value, err := e.Balance(ctx, address)
		if err == nil {
			balance = value
		}
		return err
	})
	return balance, err
}

// Counter reads an account's operation counter at head.
func (c *FallbackClient) Counter(ctx context.Context, address string) (*big.Int, error) {
	var counter *big.Int
	err := c.callWithFallback(ctx, "counter", func(ctx context.Context, e Endpoint) error {
		value, err := e.Counter(ctx, address)
		if err == nil {
			counter = value
		}
		return err
	})
	return counter, err
}

// ContractStorage reads a contract's normalized storage at head.
func (c *FallbackClient) ContractStorage(ctx context.Context, contract string) (micheline.Node, error) {
	var storage micheline.Node
	err := c.callWithFallback(ctx, "contract_storage", func(ctx context.Context, e Endpoint) error {
		value, err := e.ContractStorage(ctx, contract)
		if err == nil {
			storage = value
		}
		return err
	})
	return storage, err
}

// RunOperation dry-runs an operation against head state.
func (c *FallbackClient) RunOperation(ctx context.Context, operation interface{}) (json.RawMessage, error) {
	var result json.RawMessage
	err := c.callWithFallback(ctx, "run_operation", func(ctx context.Context, e Endpoint) error {
		value, err := e.RunOperation(ctx, operation)
		if err == nil {
			result = value
		}
		return err
	})
	return result, err
}

// InjectOperation submits a signed operation and returns its hash.
func (c *FallbackClient) InjectOperation(ctx context.Context, signedBytes string) (string, error) {
	var hash string
	err := c.callWithFallback(ctx, "inject_operation", func(ctx context.Context, e Endpoint) error {
		value, err := e.InjectOperation(ctx, signedBytes)
		if err == nil {
			hash = value
		}
		return err
	})
	return hash, err
}

// callWithFallback dispatches one logical call. On success the
// succeeding endpoint becomes the preferred one for subsequent calls;
// retryable failures rotate to the next endpoint; non-retryable errors
// propagate immediately with the original node error intact.
func (c *FallbackClient) callWithFallback(ctx context.Context, method string, fn func(context.Context, Endpoint) error) error {
	if len(c.endpoints) == 0 {
		return ErrNoEndpoints
	}

	callID := uuid.NewString()
	start := c.preferred
	var lastErr error

	for attempt := 0; attempt < len(c.endpoints); attempt++ {
		index := (start + attempt) % len(c.endpoints)
		endpoint := c.endpoints[index]

		err := fn(ctx, endpoint)
		if err == nil {
			c.preferred = index
			metrics.RPCCallsTotal.WithLabelValues(endpoint.BaseURL(), method, "success").Inc()
			return nil
		}

		metrics.RPCCallsTotal.WithLabelValues(endpoint.BaseURL(), method, "failure").Inc()

		if !IsRetryable(err) {
			c.logger.Debug("non-retryable rpc error",
				zap.String("call_id", callID),
				zap.String("method", method),
				zap.String("endpoint", endpoint.BaseURL()),
				zap.Error(err),
			)
			return err
		}

		lastErr = err
		if attempt < len(c.endpoints)-1 {
			metrics.RPCFallbacksTotal.WithLabelValues(method).Inc()
			c.logger.Warn("endpoint failed, trying next",
				zap.String("call_id", callID),
				zap.String("method", method),
				zap.String("endpoint", endpoint.BaseURL()),
				zap.Error(err),
			)
		}
	}

	return lastErr
}
