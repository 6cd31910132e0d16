package m_sale

// Field name constants for the sales_journal table.
const (
	TableName = "sales_journal"

	EntryID     = "entry_id"
	Kind        = "kind"
	ProductName = "product_name"
	Amount      = "amount"
	Forfeited   = "forfeited"
	Change      = "change"
	OccurredAt  = "occurred_at"
	CreatedAt   = "created_at"
)
