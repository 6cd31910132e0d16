package domain

import "errors"

// Domain errors as sentinel values
var (
	// Machine errors
	ErrInvalidDenomination = errors.New("coin value is not an accepted denomination")
	ErrBalanceTooLow       = errors.New("balance is too low for this purchase")
	ErrProductNotFound     = errors.New("product not found")

	// Currency errors
	ErrInvalidCurrencyCode = errors.New("unrecognized currency code")

	// Product errors
	ErrMissingValue = errors.New("required product field is empty")
	ErrInvalidPrice = errors.New("product price must be positive")

	// Catalog errors
	ErrEmptyCatalog = errors.New("catalog contains no products")
)
