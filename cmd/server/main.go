package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kurtlexicon/vending-service/internal/pkg/config"
	"github.com/kurtlexicon/vending-service/internal/pkg/telemetry"
	"github.com/kurtlexicon/vending-service/internal/services"
	transporthttp "github.com/kurtlexicon/vending-service/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Initialize telemetry (logging, tracing, metrics)
	tel, err := telemetry.New(ctx, &telemetry.Config{
		ServiceName:  cfg.OTLP.ServiceName,
		Environment:  cfg.OTLP.Environment,
		OTLPEndpoint: cfg.OTLP.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			tel.Logger.Error("Telemetry shutdown error", slog.String("error", err.Error()))
		}
	}()

	tel.Logger.Info("Starting vending service",
		slog.String("currency", cfg.Vending.CurrencyCode),
		slog.Bool("journal", cfg.Vending.SpannerDB != ""),
	)

	// 3. Initialize service dependencies (DI container)
	serviceOpts, err := services.NewServiceOptions(ctx, &cfg.Vending, tel)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	// 4. Start HTTP server
	server := transporthttp.NewServer(cfg.Server.Host, cfg.Server.Port, serviceOpts.VendingHandler, tel)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// 5. Graceful shutdown handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		tel.Logger.Info("Shutting down", slog.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	return nil
}
