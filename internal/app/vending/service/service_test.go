package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurtlexicon/vending-service/internal/app/vending/contracts"
	"github.com/kurtlexicon/vending-service/internal/app/vending/domain"
	"github.com/kurtlexicon/vending-service/internal/pkg/clock"
	"github.com/kurtlexicon/vending-service/internal/pkg/telemetry"
)

type fakeJournal struct {
	entries []*contracts.JournalEntry
	err     error
}

func (j *fakeJournal) Append(_ context.Context, entry *contracts.JournalEntry) error {
	if j.err != nil {
		return j.err
	}
	j.entries = append(j.entries, entry)
	return nil
}

func (j *fakeJournal) ListRecent(_ context.Context, _ int64) ([]*contracts.JournalEntry, error) {
	return j.entries, nil
}

func newTestService(t *testing.T, journal contracts.SalesJournal) *VendingService {
	t.Helper()

	machine, err := domain.NewMachine(domain.CurrencySEK, nil)
	require.NoError(t, err)

	tel := telemetry.NewNoOp(io.Discard)
	return New(
		machine,
		journal,
		clock.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
		tel.TracerProvider.Tracer("test"),
		tel.MeterProvider.Meter("test"),
		tel.Logger,
	)
}

func TestVendingService_Status(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.Balance)
	assert.Equal(t, "0 kr", status.BalanceText)
	assert.Equal(t, []int64{1, 2, 5, 10, 20, 50, 100, 500, 1000}, status.AllowedCoins)
	assert.Equal(t, int64(2), status.LowestPrice)
}

func TestVendingService_InsertCoin(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	balance, err := svc.InsertCoin(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)

	balance, err = svc.InsertCoin(ctx, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidDenomination)
	assert.Equal(t, int64(10), balance)
}

func TestVendingService_Purchase(t *testing.T) {
	journal := &fakeJournal{}
	svc := newTestService(t, journal)
	ctx := context.Background()

	_, err := svc.InsertCoin(ctx, 10)
	require.NoError(t, err)

	t.Run("success journals the sale", func(t *testing.T) {
		result, err := svc.Purchase(ctx, "Tomato")
		require.NoError(t, err)
		assert.Equal(t, "throw it at some annoying person", result.Usage)
		assert.Equal(t, int64(5), result.Balance)

		require.Len(t, journal.entries, 1)
		entry := journal.entries[0]
		assert.Equal(t, contracts.KindPurchase, entry.Kind)
		assert.Equal(t, "Tomato", entry.ProductName)
		assert.Equal(t, int64(5), entry.Amount)
		assert.NotEmpty(t, entry.EntryID)
	})

	t.Run("failure journals nothing", func(t *testing.T) {
		_, err := svc.Purchase(ctx, "Vether")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.Len(t, journal.entries, 1)
	})
}

func TestVendingService_EndTransaction(t *testing.T) {
	t.Run("change breakdown is journaled", func(t *testing.T) {
		journal := &fakeJournal{}
		svc := newTestService(t, journal)
		ctx := context.Background()

		for _, v := range []int64{10, 10, 10, 2, 2, 2, 1, 1, 1} {
			_, err := svc.InsertCoin(ctx, v)
			require.NoError(t, err)
		}

		result := svc.EndTransaction(ctx)
		assert.Equal(t, map[int64]int64{20: 1, 10: 1, 5: 1, 2: 2}, result.Coins)
		assert.Equal(t, int64(39), result.Returned)

		require.Len(t, journal.entries, 1)
		entry := journal.entries[0]
		assert.Equal(t, contracts.KindTransactionEnd, entry.Kind)
		assert.Equal(t, int64(39), entry.Amount)
		assert.Equal(t, int64(0), entry.Forfeited)
	})

	t.Run("zero balance writes no journal entry", func(t *testing.T) {
		journal := &fakeJournal{}
		svc := newTestService(t, journal)

		result := svc.EndTransaction(context.Background())
		assert.Empty(t, result.Coins)
		assert.Empty(t, journal.entries)
	})

	t.Run("journal failure does not surface", func(t *testing.T) {
		journal := &fakeJournal{err: errors.New("spanner unavailable")}
		svc := newTestService(t, journal)
		ctx := context.Background()

		_, err := svc.InsertCoin(ctx, 5)
		require.NoError(t, err)

		result := svc.EndTransaction(ctx)
		assert.Equal(t, map[int64]int64{5: 1}, result.Coins)
	})
}

func TestVendingService_RecentSales(t *testing.T) {
	t.Run("returns journal entries", func(t *testing.T) {
		journal := &fakeJournal{}
		svc := newTestService(t, journal)
		ctx := context.Background()

		_, err := svc.InsertCoin(ctx, 2)
		require.NoError(t, err)
		_, err = svc.Purchase(ctx, "Banana")
		require.NoError(t, err)

		sales, err := svc.RecentSales(ctx, 10)
		require.NoError(t, err)
		require.Len(t, sales, 1)
		assert.Equal(t, "Banana", sales[0].ProductName)
	})

	t.Run("nil journal yields nothing", func(t *testing.T) {
		svc := newTestService(t, nil)
		sales, err := svc.RecentSales(context.Background(), 10)
		require.NoError(t, err)
		assert.Empty(t, sales)
	})
}

func TestVendingService_Administration(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	svc := newTestService(t, nil)
	ctx := context.Background()

	ok, err := svc.AddProduct(ctx, "Volvo", "xyz", "abc", 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, svc.CustomProducts(ctx), 1)

	ok, err = svc.AddProduct(ctx, "Volvo", "dup", "dup", 2)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.ChangeProduct(ctx, "Volvo", nil, strPtr("plough"), nil)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.InsertCoin(ctx, 1)
	require.NoError(t, err)
	result, err := svc.Purchase(ctx, "Volvo")
	require.NoError(t, err)
	assert.Equal(t, "plough", result.Usage)

	assert.True(t, svc.RemoveProduct(ctx, "Volvo"))
	assert.False(t, svc.RemoveProduct(ctx, "Banana"))
}
