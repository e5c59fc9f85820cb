// Package tezos resolves Tezos operations into per-asset balance deltas
// for a subject address.
package tezos

import (
	"math/big"

	"chainscope/internal/micheline"
)

// Parameters is the Michelson payload of a transaction operation.
type Parameters struct {
	Entrypoint string         `json:"entrypoint"`
	Value      micheline.Node `json:"value"`
}

// OperationEntry mirrors one operation content record from node RPC,
// reduced to the fields balance resolution needs.
type OperationEntry struct {
	Kind        string             `json:"kind"`
	Source      string             `json:"source"`
	Destination string             `json:"destination,omitempty"`
	Amount      string             `json:"amount,omitempty"`
	Parameters  *Parameters        `json:"parameters,omitempty"`
	Metadata    *OperationMetadata `json:"metadata,omitempty"`
}

// OperationMetadata carries the applied results, including the internal
// operations a contract call spawned.
type OperationMetadata struct {
	InternalOperationResults []InternalOperation `json:"internal_operation_results,omitempty"`
}

// InternalOperation is a nested contract call triggered by executing
// the enclosing transaction.
type InternalOperation struct {
	Kind        string      `json:"kind"`
	Source      string      `json:"source"`
	Destination string      `json:"destination,omitempty"`
	Amount      string      `json:"amount,omitempty"`
	Parameters  *Parameters `json:"parameters,omitempty"`
	Nonce       int         `json:"nonce"`
}

// AsEntry converts an internal operation into a standalone entry so the
// resolver can walk it with the same algorithm.
func (op InternalOperation) AsEntry() OperationEntry {
	return OperationEntry{
		Kind:        op.Kind,
		Source:      op.Source,
		Destination: op.Destination,
		Amount:      op.Amount,
		Parameters:  op.Parameters,
	}
}

func (op OperationEntry) amount() *big.Int {
	if op.Amount == "" {
		return nil
	}
	value, ok := new(big.Int).SetString(op.Amount, 10)
	if !ok {
		return nil
	}
	return value
}

func (op OperationEntry) entrypoint() string {
	if op.Parameters == nil {
		return ""
	}
	return op.Parameters.Entrypoint
}
