package domain

import "sort"

// defaultDenominations is the standard coin set used when the caller does
// not supply one, in minor currency units.
var defaultDenominations = []int64{1, 2, 5, 10, 20, 50, 100, 500, 1000}

// Machine is the vending engine: it owns the balance, the accepted
// denomination set and the product catalog. A balance of zero means no open
// transaction, but that is a reading of the value, not a tracked state; no
// operation is rejected because of it.
//
// A Machine models one physical machine serving one customer at a time. It
// performs no locking; callers must serialize access.
type Machine struct {
	currency      Currency
	denominations []int64
	balance       int64
	catalog       *Catalog
}

// NewMachine creates a machine for the given currency. An empty denomination
// list selects the default set. Denominations must be distinct positive
// values; the set is fixed for the machine's lifetime.
func NewMachine(code CurrencyCode, denominations []int64) (*Machine, error) {
	currency, err := GetCurrency(code)
	if err != nil {
		return nil, err
	}

	if len(denominations) == 0 {
		denominations = defaultDenominations
	}
	coins := make([]int64, 0, len(denominations))
	seen := make(map[int64]bool, len(denominations))
	for _, d := range denominations {
		if d <= 0 || seen[d] {
			return nil, ErrInvalidDenomination
		}
		seen[d] = true
		coins = append(coins, d)
	}

	return &Machine{
		currency:      currency,
		denominations: coins,
		catalog:       defaultCatalog(),
	}, nil
}

// Balance returns the customer's current unspent inserted amount.
func (m *Machine) Balance() int64 { return m.balance }

// BalanceText returns the balance formatted in the machine's currency.
func (m *Machine) BalanceText() string { return m.AmountString(m.balance) }

// AmountString formats an amount in the machine's currency.
func (m *Machine) AmountString(amount int64) string {
	return m.currency.Format(amount)
}

// AllowedCoins returns a copy of the accepted denomination set.
func (m *Machine) AllowedCoins() []int64 {
	out := make([]int64, len(m.denominations))
	copy(out, m.denominations)
	return out
}

// Insert adds a coin to the balance. A value outside the accepted set fails
// with ErrInvalidDenomination and leaves the balance unchanged.
func (m *Machine) Insert(value int64) error {
	for _, d := range m.denominations {
		if d == value {
			m.balance += value
			return nil
		}
	}
	return ErrInvalidDenomination
}

// Purchase sells the named product against the balance and returns its usage
// text. On any failure the balance and catalog are unchanged.
func (m *Machine) Purchase(name string) (string, error) {
	product, ok := m.catalog.Get(name)
	if !ok {
		return "", ErrProductNotFound
	}
	if m.balance < product.Price() {
		return "", ErrBalanceTooLow
	}
	m.balance -= product.Price()
	return product.Usage(), nil
}

// EndTransaction converts the remaining balance into returned coins using a
// greedy descending decomposition and resets the balance to zero. When the
// smallest denomination does not divide the remainder, the leftover is
// forfeited: it is neither returned nor retained.
//
// The greedy strategy yields a minimal coin count for canonical coin systems
// such as the default set; it is not optimal for arbitrary denomination sets.
func (m *Machine) EndTransaction() map[int64]int64 {
	ordered := make([]int64, len(m.denominations))
	copy(ordered, m.denominations)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] > ordered[j] })

	returns := make(map[int64]int64)
	for _, d := range ordered {
		for m.balance >= d {
			returns[d]++
			m.balance -= d
		}
	}
	m.balance = 0
	return returns
}

// LowestPurchasePrice returns the cheapest price in the catalog.
func (m *Machine) LowestPurchasePrice() (int64, error) {
	return m.catalog.LowestPrice()
}

// AllProducts lists every product in the catalog.
func (m *Machine) AllProducts() []*Product {
	return m.catalog.All()
}

// ============================
// Product administration
// ============================

// CustomProducts lists only the administrator-created products.
func (m *Machine) CustomProducts() []*Product {
	return m.catalog.CustomOnly()
}

// TryAddProduct adds a custom product to the catalog.
func (m *Machine) TryAddProduct(name, description, usage string, price int64) (bool, error) {
	return m.catalog.TryAdd(name, description, usage, price)
}

// TryChangeProduct edits a custom product.
func (m *Machine) TryChangeProduct(name string, description, usage *string, price *int64) (bool, error) {
	return m.catalog.TryChange(name, description, usage, price)
}

// TryRemoveProduct removes a custom product.
func (m *Machine) TryRemoveProduct(name string) bool {
	return m.catalog.TryRemove(name)
}
