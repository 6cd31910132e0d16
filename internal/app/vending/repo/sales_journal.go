package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/kurtlexicon/vending-service/internal/app/vending/contracts"
	"github.com/kurtlexicon/vending-service/internal/models/m_sale"
)

// SalesJournalRepo implements SalesJournal for Spanner.
type SalesJournalRepo struct {
	client *spanner.Client
	model  *m_sale.Model
}

// NewSalesJournalRepo creates a new SalesJournalRepo.
func NewSalesJournalRepo(client *spanner.Client) contracts.SalesJournal {
	return &SalesJournalRepo{
		client: client,
		model:  m_sale.NewModel(),
	}
}

// Append writes one journal entry.
func (r *SalesJournalRepo) Append(ctx context.Context, entry *contracts.JournalEntry) error {
	data, err := entryToData(entry)
	if err != nil {
		return err
	}

	_, err = r.client.Apply(ctx, []*spanner.Mutation{r.model.InsertMut(data)})
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// ListRecent returns the newest journal entries, newest first.
func (r *SalesJournalRepo) ListRecent(ctx context.Context, limit int64) ([]*contracts.JournalEntry, error) {
	stmt := spanner.Statement{
		SQL: `SELECT entry_id, kind, product_name, amount, forfeited, change, occurred_at, created_at
		      FROM sales_journal
		      ORDER BY created_at DESC
		      LIMIT @limit`,
		Params: map[string]interface{}{"limit": limit},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var entries []*contracts.JournalEntry
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read journal: %w", err)
		}

		var data m_sale.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse journal entry: %w", err)
		}

		entry, err := dataToEntry(&data)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func entryToData(entry *contracts.JournalEntry) (*m_sale.Data, error) {
	data := &m_sale.Data{
		EntryID:    entry.EntryID,
		Kind:       entry.Kind,
		Amount:     entry.Amount,
		Forfeited:  entry.Forfeited,
		OccurredAt: entry.OccurredAt,
	}

	if entry.ProductName != "" {
		data.ProductName = spanner.NullString{StringVal: entry.ProductName, Valid: true}
	}

	if len(entry.Change) > 0 {
		// JSON object keys must be strings
		change := make(map[string]int64, len(entry.Change))
		for denom, count := range entry.Change {
			change[strconv.FormatInt(denom, 10)] = count
		}
		data.Change = spanner.NullJSON{Value: change, Valid: true}
	}

	return data, nil
}

func dataToEntry(data *m_sale.Data) (*contracts.JournalEntry, error) {
	entry := &contracts.JournalEntry{
		EntryID:     data.EntryID,
		Kind:        data.Kind,
		ProductName: data.ProductName.StringVal,
		Amount:      data.Amount,
		Forfeited:   data.Forfeited,
		OccurredAt:  data.OccurredAt,
	}

	if data.Change.Valid {
		raw, err := json.Marshal(data.Change.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode change column: %w", err)
		}
		keyed := make(map[string]int64)
		if err := json.Unmarshal(raw, &keyed); err != nil {
			return nil, fmt.Errorf("failed to decode change column: %w", err)
		}
		entry.Change = make(map[int64]int64, len(keyed))
		for key, count := range keyed {
			denom, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed denomination %q in change column: %w", key, err)
			}
			entry.Change[denom] = count
		}
	}

	return entry, nil
}
