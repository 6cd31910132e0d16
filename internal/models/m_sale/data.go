package m_sale

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the sales_journal table.
type Data struct {
	EntryID     string             `spanner:"entry_id"`
	Kind        string             `spanner:"kind"`
	ProductName spanner.NullString `spanner:"product_name"`
	Amount      int64              `spanner:"amount"`
	Forfeited   int64              `spanner:"forfeited"`
	Change      spanner.NullJSON   `spanner:"change"`
	OccurredAt  time.Time          `spanner:"occurred_at"`
	CreatedAt   time.Time          `spanner:"created_at"`
}
