package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/josh-kwaku/bank-account-manager/internal/config"
	"github.com/josh-kwaku/bank-account-manager/internal/directory"
	"github.com/josh-kwaku/bank-account-manager/internal/ledger"
	"github.com/josh-kwaku/bank-account-manager/internal/logging"
	"github.com/josh-kwaku/bank-account-manager/internal/seed"
	"github.com/josh-kwaku/bank-account-manager/internal/service"
	"github.com/josh-kwaku/bank-account-manager/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init("bankd", cfg.LogLevel, cfg.AppEnv)
	ctx := logging.WithLogger(context.Background(), logger)

	dir := directory.New()
	led := ledger.New()
	files := store.NewFileStore(cfg.DataDir)
	bank := service.NewBank(dir, led, files, func() error {
		return seed.Accounts(dir, led, cfg.SeedAccounts)
	})

	if err := bank.Initialize(ctx); err != nil {
		slog.Error("failed to initialize bank state", "error", err)
		os.Exit(1)
	}

	slog.Info("bank state ready",
		"accounts", dir.Count(),
		"transactions", led.Size(),
		"total_balance", dir.TotalBalance(),
	)

	if err := bank.SaveAll(ctx); err != nil {
		slog.Error("failed to save bank state", "error", err)
		os.Exit(1)
	}
}
