package product

import "github.com/shopspring/decimal"

type Rating struct {
	Rate  float64
	Count int
}

type Product struct {
	ID          int64
	Title       string
	Price       decimal.Decimal
	Category    string
	Description string
	Image       string
	Rating      Rating
}

// Stock reports how many units may be ordered. The upstream catalog has no
// inventory, so the number of raters stands in for it.
func (p Product) Stock() int {
	return p.Rating.Count
}

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)
