package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chainscope/internal/config"
	"chainscope/internal/model"
	"chainscope/internal/rpc"
	"chainscope/internal/tezos"
)

func runResolveTezos(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadResolveTezos(cfgFile, cmd.Flags())
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	data, err := os.ReadFile(cfg.In)
	if err != nil {
		return fmt.Errorf("read operation group: %w", err)
	}
	var entries []tezos.OperationEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse operation group: %w", err)
	}

	// The resolver is pure; the node is only consulted for the head
	// block the result is anchored to, when endpoints are configured.
	level := int64(0)
	if len(cfg.RPCURLs) > 0 {
		client := rpc.NewFallbackClientFromURLs(cfg.RPCURLs, nil,
			rpc.WithLogger(logger), rpc.WithHeadTTL(cfg.HeadTTL))
		header, err := client.BlockHeader(ctx)
		if err != nil {
			return fmt.Errorf("fetch head: %w", err)
		}
		level = header.Level
	}

	changes := tezos.ResolveBalanceChanges(entries, cfg.Subject)

	logger.Info("resolved operation group",
		zap.String("subject", cfg.Subject),
		zap.Int("operations", len(entries)),
		zap.Int("assets", len(changes)),
		zap.Int64("head_level", level),
	)

	out, err := newSinks(ctx, cfg.Out, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer out.Close()

	resolvedAt := time.Now().UTC().Format(time.RFC3339)
	records := model.RecordsFromChanges("tezos", cfg.Subject, "", resolvedAt, changes)
	if err := out.putBalanceChanges(ctx, records); err != nil {
		return err
	}

	return printJSON(changes)
}
