package product

import "context"

// Source returns the full product collection in one call.
type Source interface {
	FetchAll(ctx context.Context) ([]Product, error)
}
