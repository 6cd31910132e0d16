package domain

import "strings"

// Product is a sellable catalog entry. Fixed products ship with the machine
// and reject every mutation; custom products are created by an administrator
// and may be edited or removed. The name is the identity and never changes.
type Product struct {
	name        string
	description string
	usage       string
	price       int64
	mutable     bool
}

func newProduct(name, description, usage string, price int64, mutable bool) (*Product, error) {
	if isBlank(name) || isBlank(description) || isBlank(usage) {
		return nil, ErrMissingValue
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	return &Product{
		name:        name,
		description: description,
		usage:       usage,
		price:       price,
		mutable:     mutable,
	}, nil
}

// NewCustomProduct creates an administrator-defined product.
func NewCustomProduct(name, description, usage string, price int64) (*Product, error) {
	return newProduct(name, description, usage, price, true)
}

// newFixedProduct creates a built-in product. Construction arguments are
// compile-time constants, so validation failures are programming errors.
func newFixedProduct(name, description, usage string, price int64) *Product {
	p, err := newProduct(name, description, usage, price, false)
	if err != nil {
		panic(err)
	}
	return p
}

// Getters
func (p *Product) Name() string        { return p.name }
func (p *Product) Description() string { return p.description }
func (p *Product) Usage() string       { return p.usage }
func (p *Product) Price() int64        { return p.price }
func (p *Product) Mutable() bool       { return p.mutable }

// change applies the non-absent fields to a mutable product. A nil or blank
// text field keeps the existing value; a nil price keeps the existing price.
// A supplied price of zero or less is a contract violation, not an expected
// outcome, and is reported as ErrInvalidPrice.
func (p *Product) change(description, usage *string, price *int64) (bool, error) {
	if !p.mutable {
		return false, nil
	}
	if price != nil && *price <= 0 {
		return false, ErrInvalidPrice
	}
	if price != nil {
		p.price = *price
	}
	if description != nil && !isBlank(*description) {
		p.description = *description
	}
	if usage != nil && !isBlank(*usage) {
		p.usage = *usage
	}
	return true, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
