// Package service exposes the vending machine to transports. It owns the
// serialization the engine itself does not provide: every operation takes
// the service mutex, so each call is atomic with respect to machine state.
package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kurtlexicon/vending-service/internal/app/vending/contracts"
	"github.com/kurtlexicon/vending-service/internal/app/vending/domain"
	"github.com/kurtlexicon/vending-service/internal/pkg/clock"
)

// MachineStatus is the customer-facing view of the machine.
type MachineStatus struct {
	Balance      int64
	BalanceText  string
	AllowedCoins []int64
	LowestPrice  int64
}

// PurchaseResult is returned after a successful purchase.
type PurchaseResult struct {
	Usage       string
	Balance     int64
	BalanceText string
}

// ChangeResult is returned when a transaction ends.
type ChangeResult struct {
	Coins    map[int64]int64
	Returned int64
}

// VendingService drives one Machine. The journal is optional; a nil journal
// disables audit records without affecting machine behaviour.
type VendingService struct {
	mu      sync.Mutex
	machine *domain.Machine

	journal contracts.SalesJournal
	clock   clock.Clock
	tracer  trace.Tracer
	logger  *slog.Logger

	coinsInserted   metric.Int64Counter
	purchases       metric.Int64Counter
	changeReturned  metric.Int64Counter
	amountForfeited metric.Int64Counter
	journalFailures metric.Int64Counter
}

// New creates a VendingService around the given machine.
func New(
	machine *domain.Machine,
	journal contracts.SalesJournal,
	clk clock.Clock,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *VendingService {
	coinsInserted, _ := meter.Int64Counter(
		"vending.coins.inserted",
		metric.WithDescription("Coins accepted by the machine"),
		metric.WithUnit("{coin}"),
	)
	purchases, _ := meter.Int64Counter(
		"vending.purchases",
		metric.WithDescription("Purchase attempts by result"),
	)
	changeReturned, _ := meter.Int64Counter(
		"vending.change.returned",
		metric.WithDescription("Coins returned as change"),
		metric.WithUnit("{coin}"),
	)
	amountForfeited, _ := meter.Int64Counter(
		"vending.amount.forfeited",
		metric.WithDescription("Balance written off at transaction end"),
	)
	journalFailures, _ := meter.Int64Counter(
		"vending.journal.failures",
		metric.WithDescription("Sales journal writes that failed"),
	)

	return &VendingService{
		machine:         machine,
		journal:         journal,
		clock:           clk,
		tracer:          tracer,
		logger:          logger,
		coinsInserted:   coinsInserted,
		purchases:       purchases,
		changeReturned:  changeReturned,
		amountForfeited: amountForfeited,
		journalFailures: journalFailures,
	}
}

// Status reports balance, accepted coins and the cheapest price.
func (s *VendingService) Status(ctx context.Context) (*MachineStatus, error) {
	_, span := s.tracer.Start(ctx, "VendingService.Status")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	lowest, err := s.machine.LowestPurchasePrice()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return &MachineStatus{
		Balance:      s.machine.Balance(),
		BalanceText:  s.machine.BalanceText(),
		AllowedCoins: s.machine.AllowedCoins(),
		LowestPrice:  lowest,
	}, nil
}

// Products lists the full catalog.
func (s *VendingService) Products(ctx context.Context) []*domain.Product {
	_, span := s.tracer.Start(ctx, "VendingService.Products")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.AllProducts()
}

// AmountString formats an amount in the machine's currency.
func (s *VendingService) AmountString(amount int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.AmountString(amount)
}

// InsertCoin feeds one coin into the machine.
func (s *VendingService) InsertCoin(ctx context.Context, value int64) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "VendingService.InsertCoin")
	defer span.End()
	span.SetAttributes(attribute.Int64("coin.value", value))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.machine.Insert(value); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "coin rejected")
		s.logger.WarnContext(ctx, "Coin rejected",
			slog.Int64("value", value),
		)
		return s.machine.Balance(), err
	}

	s.coinsInserted.Add(ctx, 1,
		metric.WithAttributes(attribute.Int64("denomination", value)),
	)
	return s.machine.Balance(), nil
}

// Purchase sells a product and journals the sale.
func (s *VendingService) Purchase(ctx context.Context, name string) (*PurchaseResult, error) {
	ctx, span := s.tracer.Start(ctx, "VendingService.Purchase")
	defer span.End()
	span.SetAttributes(attribute.String("product.name", name))

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.machine.Balance()
	usage, err := s.machine.Purchase(name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "purchase failed")
		s.purchases.Add(ctx, 1, metric.WithAttributes(
			attribute.String("result", "failure"),
		))
		return nil, err
	}

	price := before - s.machine.Balance()
	s.purchases.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", "success"),
	))
	s.logger.InfoContext(ctx, "Product sold",
		slog.String("name", name),
		slog.Int64("price", price),
	)

	s.appendJournal(ctx, &contracts.JournalEntry{
		EntryID:     uuid.New().String(),
		Kind:        contracts.KindPurchase,
		ProductName: name,
		Amount:      price,
		OccurredAt:  s.clock.Now(),
	})

	return &PurchaseResult{
		Usage:       usage,
		Balance:     s.machine.Balance(),
		BalanceText: s.machine.BalanceText(),
	}, nil
}

// EndTransaction returns the remaining balance as coins and journals the
// breakdown. The forfeited remainder is not part of the result.
func (s *VendingService) EndTransaction(ctx context.Context) *ChangeResult {
	ctx, span := s.tracer.Start(ctx, "VendingService.EndTransaction")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.machine.Balance()
	change := s.machine.EndTransaction()

	var returned, coins int64
	for denom, count := range change {
		returned += denom * count
		coins += count
	}
	forfeited := before - returned

	s.changeReturned.Add(ctx, coins)
	if forfeited > 0 {
		s.amountForfeited.Add(ctx, forfeited)
		s.logger.WarnContext(ctx, "Remainder forfeited",
			slog.Int64("amount", forfeited),
		)
	}

	if before > 0 {
		s.appendJournal(ctx, &contracts.JournalEntry{
			EntryID:    uuid.New().String(),
			Kind:       contracts.KindTransactionEnd,
			Amount:     returned,
			Forfeited:  forfeited,
			Change:     change,
			OccurredAt: s.clock.Now(),
		})
	}

	return &ChangeResult{Coins: change, Returned: returned}
}

// CustomProducts lists the administrator-created products.
func (s *VendingService) CustomProducts(ctx context.Context) []*domain.Product {
	_, span := s.tracer.Start(ctx, "VendingService.CustomProducts")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.CustomProducts()
}

// AddProduct creates a custom product. A false result means the name is
// taken; errors are field-validation failures.
func (s *VendingService) AddProduct(ctx context.Context, name, description, usage string, price int64) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "VendingService.AddProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product.name", name))

	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.machine.TryAddProduct(name, description, usage, price)
	if err == nil && ok {
		s.logger.InfoContext(ctx, "Custom product added", slog.String("name", name))
	}
	return ok, err
}

// ChangeProduct edits a custom product.
func (s *VendingService) ChangeProduct(ctx context.Context, name string, description, usage *string, price *int64) (bool, error) {
	_, span := s.tracer.Start(ctx, "VendingService.ChangeProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product.name", name))

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.TryChangeProduct(name, description, usage, price)
}

// RemoveProduct deletes a custom product.
func (s *VendingService) RemoveProduct(ctx context.Context, name string) bool {
	_, span := s.tracer.Start(ctx, "VendingService.RemoveProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product.name", name))

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.TryRemoveProduct(name)
}

// RecentSales lists the newest sales journal entries, newest first. With no
// journal configured the result is empty.
func (s *VendingService) RecentSales(ctx context.Context, limit int64) ([]*contracts.JournalEntry, error) {
	ctx, span := s.tracer.Start(ctx, "VendingService.RecentSales")
	defer span.End()

	if s.journal == nil {
		return nil, nil
	}
	entries, err := s.journal.ListRecent(ctx, limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return entries, nil
}

// appendJournal writes an audit record. The machine has already mutated its
// state, so journal failures are logged and counted, never propagated.
func (s *VendingService) appendJournal(ctx context.Context, entry *contracts.JournalEntry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Append(ctx, entry); err != nil {
		s.journalFailures.Add(ctx, 1)
		s.logger.ErrorContext(ctx, "Failed to append sales journal entry",
			slog.String("kind", entry.Kind),
			slog.String("error", err.Error()),
		)
	}
}
