// Package chain provides the EVM node client: contract reads,
// call simulation, and token standard detection over go-ethereum RPC.
package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client wraps a go-ethereum RPC connection and implements the
// contract read and simulation surface the call data resolver needs.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
}

// NewClient dials the RPC URL and returns a connected client.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}

	return &Client{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// ChainID returns the chain ID of the connected node.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.ethClient.ChainID(ctx)
}

// LatestBlockNumber returns the latest block number.
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	return c.ethClient.BlockNumber(ctx)
}

// ReadContract packs the method call, performs an eth_call against
// latest state and returns the unpacked result values.
func (c *Client) ReadContract(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	return c.call(ctx, nil, to, contractABI, method, nil, args...)
}

// SimulateContract executes the call as from would, without submitting
// it. The node applies value transfers and sender checks, so methods
// whose result depends on the caller (minting, access controlled
// views) return what the real transaction would.
func (c *Client) SimulateContract(ctx context.Context, from, to common.Address, contractABI abi.ABI, method string, value *big.Int, args ...interface{}) ([]interface{}, error) {
	return c.call(ctx, &from, to, contractABI, method, value, args...)
}

func (c *Client) call(ctx context.Context, from *common.Address, to common.Address, contractABI abi.ABI, method string, value *big.Int, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	msg := ethereum.CallMsg{To: &to, Data: data, Value: value}
	if from != nil {
		msg.From = *from
	}

	raw, err := c.ethClient.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s on %s: %w", method, to.Hex(), err)
	}

	values, err := contractABI.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpack %s result: %w", method, err)
	}
	return values, nil
}
