package evm

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"chainscope/internal/model"
)

// Resolver turns transaction call data into balance deltas for the
// sender. Contracts it cannot classify or calls it cannot match
// resolve to an empty map, never an error: the confirmation surface
// must always have something safe to render.
type Resolver struct {
	detector StandardDetector
	reader   ChainReader
	logger   *zap.Logger

	mu        sync.RWMutex
	standards map[common.Address]Standard
}

// NewResolver builds a resolver around the given collaborators. The
// logger may be nil.
func NewResolver(detector StandardDetector, reader ChainReader, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		detector:  detector,
		reader:    reader,
		logger:    logger,
		standards: make(map[common.Address]Standard),
	}
}

// KnowStandard seeds the standard cache for a contract, skipping
// detection for tokens the caller already has metadata for.
func (r *Resolver) KnowStandard(token common.Address, standard Standard) {
	r.mu.Lock()
	r.standards[token] = standard
	r.mu.Unlock()
}

// Resolve computes the sender's balance deltas for one transaction.
func (r *Resolver) Resolve(ctx context.Context, tx Transaction, sender common.Address) (model.BalancesChanges, error) {
	changes := model.BalancesChanges{}

	if len(tx.Data) == 0 {
		// Plain native transfer.
		if tx.Value != nil && tx.Value.Sign() > 0 && (tx.To == nil || *tx.To != sender) {
			changes.Add(model.NativeSlug, new(big.Int).Neg(tx.Value), nil)
		}
		changes.StripZero()
		return changes, nil
	}

	if tx.To == nil {
		// Contract deployment: no transfer semantics to decode.
		return changes, nil
	}

	standard := r.standardFor(ctx, *tx.To)
	switch standard {
	case StandardERC20:
		r.applyERC20(tx, sender, changes)
	case StandardERC721:
		r.applyERC721(ctx, tx, sender, changes)
	case StandardERC1155:
		r.applyERC1155(tx, sender, changes)
	default:
		// Unknown standard: deliberately resolve to no changes.
	}

	changes.StripZero()
	return changes, nil
}

// standardFor consults the cache, then the detector. Detection
// failures degrade to unknown.
func (r *Resolver) standardFor(ctx context.Context, token common.Address) Standard {
	r.mu.RLock()
	standard, ok := r.standards[token]
	r.mu.RUnlock()
	if ok {
		return standard
	}
	if r.detector == nil {
		return StandardUnknown
	}
	standard, err := r.detector.DetectStandard(ctx, token)
	if err != nil {
		r.logger.Debug("standard detection failed",
			zap.String("token", token.Hex()),
			zap.Error(err),
		)
		return StandardUnknown
	}
	if standard != StandardUnknown {
		r.KnowStandard(token, standard)
	}
	return standard
}

func asAddress(value interface{}) (common.Address, bool) {
	addr, ok := value.(common.Address)
	return addr, ok
}

func asBigInt(value interface{}) (*big.Int, bool) {
	amount, ok := value.(*big.Int)
	return amount, ok
}

func asBigInts(value interface{}) ([]*big.Int, bool) {
	amounts, ok := value.([]*big.Int)
	return amounts, ok
}
