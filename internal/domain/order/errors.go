package order

import "errors"

var (
	ErrEmptyCart          = errors.New("no items to checkout")
	ErrCheckoutValidation = errors.New("checkout validation failed")
	ErrOrderNotFound      = errors.New("order not found")
)
