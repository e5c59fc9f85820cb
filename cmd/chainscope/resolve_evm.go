package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chainscope/internal/chain"
	"chainscope/internal/config"
	"chainscope/internal/evm"
	"chainscope/internal/model"
)

// evmTxInput is the on-disk transaction shape: hex fields as a node or
// wallet would serialize them.
type evmTxInput struct {
	To    string `json:"to,omitempty"`
	Value string `json:"value,omitempty"`
	Data  string `json:"data,omitempty"`
}

func runResolveEVM(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadResolveEVM(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.Subject == "" {
		return fmt.Errorf("subject address is required")
	}
	if !common.IsHexAddress(cfg.Subject) {
		return fmt.Errorf("invalid subject address %q", cfg.Subject)
	}
	if cfg.Standard == "" && cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required unless --standard is given")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tx, err := loadEVMTransaction(cfg.In)
	if err != nil {
		return err
	}

	var reader evm.ChainReader = offlineReader{}
	var detector evm.StandardDetector
	if cfg.RPCURL != "" {
		client, err := chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			return fmt.Errorf("connect rpc: %w", err)
		}
		defer client.Close()
		reader = client
		detector = chain.NewStandardProbe(client, logger)
	}
	if cfg.Standard != "" {
		override, err := parseStandard(cfg.Standard)
		if err != nil {
			return err
		}
		detector = staticDetector{standard: override}
	}

	resolver := evm.NewResolver(detector, reader, logger)
	changes, err := resolver.Resolve(ctx, tx, common.HexToAddress(cfg.Subject))
	if err != nil {
		return err
	}

	logger.Info("resolved transaction",
		zap.String("subject", cfg.Subject),
		zap.Int("assets", len(changes)),
	)

	out, err := newSinks(ctx, cfg.Out, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer out.Close()

	resolvedAt := time.Now().UTC().Format(time.RFC3339)
	records := model.RecordsFromChanges("evm", cfg.Subject, "", resolvedAt, changes)
	if err := out.putBalanceChanges(ctx, records); err != nil {
		return err
	}

	return printJSON(changes)
}

func loadEVMTransaction(path string) (evm.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return evm.Transaction{}, fmt.Errorf("read transaction: %w", err)
	}
	var input evmTxInput
	if err := json.Unmarshal(data, &input); err != nil {
		return evm.Transaction{}, fmt.Errorf("parse transaction: %w", err)
	}

	var tx evm.Transaction
	if input.To != "" {
		if !common.IsHexAddress(input.To) {
			return evm.Transaction{}, fmt.Errorf("invalid to address %q", input.To)
		}
		to := common.HexToAddress(input.To)
		tx.To = &to
	}
	if input.Value != "" {
		value, err := hexutil.DecodeBig(input.Value)
		if err != nil {
			value, ok := new(big.Int).SetString(input.Value, 10)
			if !ok {
				return evm.Transaction{}, fmt.Errorf("invalid value %q", input.Value)
			}
			tx.Value = value
		} else {
			tx.Value = value
		}
	}
	if input.Data != "" {
		payload, err := hexutil.Decode(input.Data)
		if err != nil {
			return evm.Transaction{}, fmt.Errorf("invalid call data: %w", err)
		}
		tx.Data = payload
	}
	return tx, nil
}

func parseStandard(name string) (evm.Standard, error) {
	switch evm.Standard(name) {
	case evm.StandardERC20, evm.StandardERC721, evm.StandardERC1155:
		return evm.Standard(name), nil
	default:
		return evm.StandardUnknown, fmt.Errorf("unknown token standard %q", name)
	}
}

// staticDetector bypasses on-chain detection with a fixed answer.
type staticDetector struct {
	standard evm.Standard
}

func (d staticDetector) DetectStandard(context.Context, common.Address) (evm.Standard, error) {
	return d.standard, nil
}

// offlineReader backs --standard runs without an RPC URL. Calls that
// genuinely need the chain, like mint simulation, degrade the same way
// a failed simulation does.
type offlineReader struct{}

func (offlineReader) ReadContract(context.Context, common.Address, abi.ABI, string, ...interface{}) ([]interface{}, error) {
	return nil, fmt.Errorf("no rpc url configured")
}

func (offlineReader) SimulateContract(context.Context, common.Address, common.Address, abi.ABI, string, *big.Int, ...interface{}) ([]interface{}, error) {
	return nil, fmt.Errorf("no rpc url configured")
}
