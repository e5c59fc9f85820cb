// Package evm decodes EVM transaction call data into per-asset balance
// deltas for the sending account.
package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Standard identifies a token contract interface.
type Standard string

const (
	StandardUnknown Standard = ""
	StandardERC20   Standard = "erc20"
	StandardERC721  Standard = "erc721"
	StandardERC1155 Standard = "erc1155"
)

// Transaction is the subset of a pending transaction the resolver
// inspects.
type Transaction struct {
	To    *common.Address `json:"to,omitempty"`
	Value *big.Int        `json:"value,omitempty"`
	Data  []byte          `json:"data,omitempty"`
}

// ChainReader is the external read/simulate capability. Reads are
// plain eth_call; SimulateContract executes the call against current
// state and returns its decoded result without submitting it.
type ChainReader interface {
	ReadContract(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...interface{}) ([]interface{}, error)
	SimulateContract(ctx context.Context, from, to common.Address, contractABI abi.ABI, method string, value *big.Int, args ...interface{}) ([]interface{}, error)
}

// StandardDetector classifies a token contract. Implementations may
// read chain state. StandardUnknown with a nil error means the
// contract matched no known interface.
type StandardDetector interface {
	DetectStandard(ctx context.Context, token common.Address) (Standard, error)
}
