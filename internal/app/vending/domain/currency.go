package domain

import "fmt"

// CurrencyCode identifies one of the supported currencies.
type CurrencyCode string

const (
	CurrencySEK CurrencyCode = "SEK"
	CurrencyUSD CurrencyCode = "USD"
)

// SymbolPosition says on which side of the amount the symbol is printed.
type SymbolPosition int

const (
	SymbolBefore SymbolPosition = iota
	SymbolAfter
)

// Currency is an immutable display rule for amounts in one currency.
type Currency struct {
	code     CurrencyCode
	symbol   string
	position SymbolPosition
}

// currencies is built once at process start and never mutated afterwards.
var currencies = map[CurrencyCode]Currency{
	CurrencySEK: {code: CurrencySEK, symbol: "kr", position: SymbolAfter},
	CurrencyUSD: {code: CurrencyUSD, symbol: "$", position: SymbolBefore},
}

// GetCurrency looks up the display rule for a currency code.
func GetCurrency(code CurrencyCode) (Currency, error) {
	c, ok := currencies[code]
	if !ok {
		return Currency{}, ErrInvalidCurrencyCode
	}
	return c, nil
}

// CurrencyCodes returns the recognized codes, for configuration and display.
func CurrencyCodes() []CurrencyCode {
	return []CurrencyCode{CurrencySEK, CurrencyUSD}
}

// Code returns the currency code.
func (c Currency) Code() CurrencyCode { return c.code }

// Format renders an amount in minor units with the currency symbol on the
// configured side, e.g. "12 kr" or "$ 12".
func (c Currency) Format(amount int64) string {
	if c.position == SymbolBefore {
		return fmt.Sprintf("%s %d", c.symbol, amount)
	}
	return fmt.Sprintf("%d %s", amount, c.symbol)
}
