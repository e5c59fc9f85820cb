package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"chainscope/internal/model"
	"chainscope/internal/storage"
	"chainscope/internal/storage/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "chainscope",
		Short:        "Wallet balance change resolver and DEX route finder",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	resolveTezosCmd := &cobra.Command{
		Use:   "resolve-tezos",
		Short: "Resolve balance changes of a Tezos operation group",
		RunE:  runResolveTezos,
	}

	resolveTezosCmd.Flags().StringSlice("rpc", nil, "Tezos RPC base URLs, tried in order (comma-separated)")
	resolveTezosCmd.Flags().Duration("head-ttl", 3*time.Second, "block head cache TTL")
	resolveTezosCmd.Flags().String("in", "", "operation group JSON file")
	resolveTezosCmd.Flags().String("subject", "", "account whose balance changes to resolve")
	resolveTezosCmd.Flags().String("out", "", "output JSONL path (optional)")
	resolveTezosCmd.Flags().String("pg-dsn", "", "Postgres DSN (optional)")
	resolveTezosCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(resolveTezosCmd)

	resolveEVMCmd := &cobra.Command{
		Use:   "resolve-evm",
		Short: "Resolve balance changes of an EVM transaction",
		RunE:  runResolveEVM,
	}

	resolveEVMCmd.Flags().String("rpc", "", "EVM RPC URL")
	resolveEVMCmd.Flags().String("standard", "", "token standard override (erc20, erc721, erc1155), skips on-chain detection")
	resolveEVMCmd.Flags().String("in", "", "transaction JSON file")
	resolveEVMCmd.Flags().String("subject", "", "sender address whose balance changes to resolve")
	resolveEVMCmd.Flags().String("out", "", "output JSONL path (optional)")
	resolveEVMCmd.Flags().String("pg-dsn", "", "Postgres DSN (optional)")
	resolveEVMCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(resolveEVMCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Find the best trade routes across configured DEX pools",
		RunE:  runQuote,
	}

	quoteCmd.Flags().StringSlice("rpc", nil, "Tezos RPC base URLs, tried in order (comma-separated)")
	quoteCmd.Flags().Duration("head-ttl", 3*time.Second, "block head cache TTL")
	quoteCmd.Flags().String("pools", "", "pool catalogue JSON file")
	quoteCmd.Flags().String("input", "", "input asset slug (native or contract address)")
	quoteCmd.Flags().String("output", "", "output asset slug (native or contract address)")
	quoteCmd.Flags().String("amount", "", "input amount in atomic units")
	quoteCmd.Flags().Int("max-hops", 3, "maximum route length")
	quoteCmd.Flags().Int("max-results", 3, "maximum number of routes returned")
	quoteCmd.Flags().String("out", "", "output JSONL path (optional)")
	quoteCmd.Flags().String("pg-dsn", "", "Postgres DSN (optional)")
	quoteCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(quoteCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// sinks collects the configured storage backends. An empty out and dsn
// yields no sinks; results still go to stdout.
type sinks struct {
	stores []storage.Storage
	pg     *postgres.Store
}

func newSinks(ctx context.Context, out, pgDSN string) (*sinks, error) {
	s := &sinks{}
	if out != "" {
		s.stores = append(s.stores, storage.NewJsonlStorage(out))
	}
	if pgDSN != "" {
		store, err := postgres.NewStore(ctx, pgDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.pg = store
		s.stores = append(s.stores, store)
	}
	return s, nil
}

func (s *sinks) Close() {
	if s.pg != nil {
		s.pg.Close()
	}
}

func (s *sinks) putBalanceChanges(ctx context.Context, records []model.BalanceChangeRecord) error {
	for _, store := range s.stores {
		if err := store.PutBalanceChanges(ctx, records); err != nil {
			return err
		}
	}
	return nil
}

func (s *sinks) putTrades(ctx context.Context, records []model.TradeRecord) error {
	for _, store := range s.stores {
		if err := store.PutTrades(ctx, records); err != nil {
			return err
		}
	}
	return nil
}

func printJSON(value interface{}) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}
