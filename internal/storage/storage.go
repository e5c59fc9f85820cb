// Package storage defines sinks for resolved balance changes and
// quoted trades.
package storage

import (
	"context"

	"chainscope/internal/model"
)

// Storage is a sink for resolver and router output.
type Storage interface {
	PutBalanceChanges(ctx context.Context, records []model.BalanceChangeRecord) error
	PutTrades(ctx context.Context, records []model.TradeRecord) error
}
