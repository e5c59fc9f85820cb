package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chainscope/internal/config"
	"chainscope/internal/dex"
	"chainscope/internal/model"
	"chainscope/internal/router"
	"chainscope/internal/rpc"
)

func runQuote(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadQuote(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if len(cfg.RPCURLs) == 0 {
		return fmt.Errorf("at least one rpc url is required")
	}
	if cfg.Pools == "" {
		return fmt.Errorf("pool catalogue path is required")
	}
	if cfg.InputSlug == "" || cfg.OutputSlug == "" {
		return fmt.Errorf("input and output asset slugs are required")
	}

	amount, ok := new(big.Int).SetString(cfg.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return fmt.Errorf("amount must be a positive integer, got %q", cfg.Amount)
	}

	inputToken, err := tokenFromSlug(cfg.InputSlug)
	if err != nil {
		return err
	}
	outputToken, err := tokenFromSlug(cfg.OutputSlug)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := rpc.NewFallbackClientFromURLs(cfg.RPCURLs, nil,
		rpc.WithLogger(logger), rpc.WithHeadTTL(cfg.HeadTTL))

	header, err := client.BlockHeader(ctx)
	if err != nil {
		return fmt.Errorf("fetch head: %w", err)
	}

	sources, err := dex.LoadPoolSet(cfg.Pools, client)
	if err != nil {
		return err
	}
	pairs, err := dex.FetchAllPairs(ctx, sources...)
	if err != nil {
		return fmt.Errorf("fetch pool reserves: %w", err)
	}

	logger.Info("quoting",
		zap.String("input", cfg.InputSlug),
		zap.String("output", cfg.OutputSlug),
		zap.String("amount", amount.String()),
		zap.Int("pairs", len(pairs)),
		zap.Int64("head_level", header.Level),
	)

	trades, err := router.BestTradeExactIn(pairs, inputToken, amount, outputToken, router.Options{
		MaxHops:       cfg.MaxHops,
		MaxNumResults: cfg.MaxResults,
	})
	if err != nil {
		return err
	}
	if len(trades) == 0 {
		return fmt.Errorf("no route from %s to %s within %d hops", cfg.InputSlug, cfg.OutputSlug, cfg.MaxHops)
	}

	out, err := newSinks(ctx, cfg.Out, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer out.Close()

	quotedAt := time.Now().UTC().Format(time.RFC3339)
	records := make([]model.TradeRecord, 0, len(trades))
	for _, trade := range trades {
		records = append(records, model.RecordFromTrade(trade, quotedAt))
	}
	if err := out.putTrades(ctx, records); err != nil {
		return err
	}

	return printJSON(records)
}

func tokenFromSlug(slug string) (model.TokenRef, error) {
	if slug == model.NativeSlug {
		return model.NativeToken(), nil
	}
	address, id, err := model.SplitSlug(slug)
	if err != nil {
		return model.TokenRef{}, err
	}
	return model.ContractToken(address, id), nil
}
