package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Raggahmuff1n/DamageInvoice/internal/cli"
	"github.com/Raggahmuff1n/DamageInvoice/internal/config"
	apphttp "github.com/Raggahmuff1n/DamageInvoice/internal/http"
	"github.com/Raggahmuff1n/DamageInvoice/internal/receipts"
	drivestore "github.com/Raggahmuff1n/DamageInvoice/internal/receipts/drive"
	localstore "github.com/Raggahmuff1n/DamageInvoice/internal/receipts/local"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var receiptStore receipts.Store
	switch cfg.ReceiptBackend {
	case config.BackendDrive:
		ds, err := drivestore.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Drive receipt store", "error", err)
			os.Exit(1)
		}
		receiptStore = ds
		logger.Info("Initialized Drive receipt backend", "backend", cfg.ReceiptBackend)
	default:
		ls, err := localstore.New(cfg.ReceiptDir)
		if err != nil {
			logger.Error("Failed to initialize local receipt store", "error", err, "dir", cfg.ReceiptDir)
			os.Exit(1)
		}
		receiptStore = ls
		logger.Info("Initialized local receipt backend", "backend", cfg.ReceiptBackend, "dir", cfg.ReceiptDir)
	}

	srv, err := apphttp.NewServer(":"+cfg.Port, cfg, receiptStore)
	if err != nil {
		logger.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting damageinvoice server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
