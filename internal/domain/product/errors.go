package product

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrOutOfStock        = errors.New("product out of stock")
	ErrFetchFailed       = errors.New("failed to load products")
	ErrInvalidSortOption = errors.New("invalid sort option")
)
