package handler

import "time"

// MachineResponse describes the machine state shown to customers.
type MachineResponse struct {
	Balance      int64   `json:"balance"`
	BalanceText  string  `json:"balance_text"`
	AllowedCoins []int64 `json:"allowed_coins"`
	LowestPrice  int64   `json:"lowest_price"`
}

// ProductResponse is one catalog entry.
type ProductResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Price       int64  `json:"price"`
	PriceText   string `json:"price_text"`
	Mutable     bool   `json:"mutable"`
}

// InsertCoinRequest feeds one coin into the machine.
type InsertCoinRequest struct {
	Value int64 `json:"value"`
}

// BalanceResponse reports the balance after a coin insertion.
type BalanceResponse struct {
	Balance     int64  `json:"balance"`
	BalanceText string `json:"balance_text"`
}

// PurchaseRequest buys a product by name.
type PurchaseRequest struct {
	Name string `json:"name"`
}

// PurchaseResponse is the outcome of a successful purchase.
type PurchaseResponse struct {
	Usage       string `json:"usage"`
	Balance     int64  `json:"balance"`
	BalanceText string `json:"balance_text"`
}

// ChangeResponse is the coin breakdown returned at transaction end.
type ChangeResponse struct {
	Coins    map[int64]int64 `json:"coins"`
	Returned int64           `json:"returned"`
}

// AddProductRequest creates a custom product.
type AddProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Price       int64  `json:"price"`
}

// ChangeProductRequest edits a custom product; absent fields are unchanged.
type ChangeProductRequest struct {
	Description *string `json:"description"`
	Usage       *string `json:"usage"`
	Price       *int64  `json:"price"`
}

// SaleResponse is one sales journal entry.
type SaleResponse struct {
	EntryID     string          `json:"entry_id"`
	Kind        string          `json:"kind"`
	ProductName string          `json:"product_name,omitempty"`
	Amount      int64           `json:"amount"`
	Forfeited   int64           `json:"forfeited"`
	Change      map[int64]int64 `json:"change,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
