package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"

	"github.com/kurtlexicon/vending-service/internal/app/vending/contracts"
	"github.com/kurtlexicon/vending-service/internal/app/vending/domain"
	"github.com/kurtlexicon/vending-service/internal/app/vending/repo"
	"github.com/kurtlexicon/vending-service/internal/app/vending/service"
	"github.com/kurtlexicon/vending-service/internal/pkg/clock"
	"github.com/kurtlexicon/vending-service/internal/pkg/config"
	"github.com/kurtlexicon/vending-service/internal/pkg/telemetry"
	"github.com/kurtlexicon/vending-service/internal/transport/http/handler"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient  *spanner.Client
	VendingHandler *handler.VendingHandler
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.VendingConfig, tel *telemetry.Telemetry) (*ServiceOptions, error) {
	// 1. Create the vending machine engine
	machine, err := domain.NewMachine(domain.CurrencyCode(cfg.CurrencyCode), cfg.Denominations)
	if err != nil {
		return nil, fmt.Errorf("failed to create vending machine: %w", err)
	}

	// 2. Optional Spanner-backed sales journal
	var spannerClient *spanner.Client
	var journal contracts.SalesJournal
	if cfg.SpannerDB != "" {
		spannerClient, err = spanner.NewClient(ctx, cfg.SpannerDB)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spanner client: %w", err)
		}
		journal = repo.NewSalesJournalRepo(spannerClient)
	}

	// 3. Application service
	vendingService := service.New(
		machine,
		journal,
		clock.NewRealClock(),
		tel.TracerProvider.Tracer("vending-service"),
		tel.MeterProvider.Meter("vending-service"),
		tel.Logger,
	)

	// 4. HTTP handler
	vendingHandler := handler.NewVendingHandler(vendingService, tel.Logger)

	return &ServiceOptions{
		SpannerClient:  spannerClient,
		VendingHandler: vendingHandler,
	}, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
