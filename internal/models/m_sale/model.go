package m_sale

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the sales_journal table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for appending a journal entry.
// Entries are immutable once written; there is no update mutation.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{
			EntryID,
			Kind,
			ProductName,
			Amount,
			Forfeited,
			Change,
			OccurredAt,
			CreatedAt,
		},
		[]interface{}{
			data.EntryID,
			data.Kind,
			data.ProductName,
			data.Amount,
			data.Forfeited,
			data.Change,
			data.OccurredAt,
			spanner.CommitTimestamp,
		},
	)
}

// DeleteMut creates a Spanner mutation for deleting a journal entry.
// Used only by test cleanup.
func (m *Model) DeleteMut(entryID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{entryID})
}
