package contracts

import (
	"context"
	"time"
)

// Entry kinds recorded in the sales journal.
const (
	KindPurchase       = "purchase"
	KindTransactionEnd = "transaction_end"
)

// JournalEntry is one audit record: a completed purchase or a transaction
// end with its change breakdown. The journal is append-only; engine state is
// never reconstructed from it.
type JournalEntry struct {
	EntryID     string
	Kind        string
	ProductName string // empty for transaction_end entries
	Amount      int64  // price paid, or total value returned as change
	Forfeited   int64  // remainder written off at transaction end
	Change      map[int64]int64
	OccurredAt  time.Time
}

// SalesJournal persists journal entries.
type SalesJournal interface {
	Append(ctx context.Context, entry *JournalEntry) error
	ListRecent(ctx context.Context, limit int64) ([]*JournalEntry, error)
}
