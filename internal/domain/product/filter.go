package product

import (
	"strings"

	"github.com/shopspring/decimal"

	domcategory "example.com/storefront/internal/domain/category"
)

// AnyBrand disables the brand criterion.
const AnyBrand = "all"

var (
	DefaultMinPrice = decimal.Zero
	DefaultMaxPrice = decimal.NewFromInt(1000)
)

type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func (r PriceRange) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(r.Min) && price.LessThanOrEqual(r.Max)
}

type Filters struct {
	Category    string
	Price       PriceRange
	SearchQuery string
	Brand       string
}

func DefaultFilters() Filters {
	return Filters{
		Category:    domcategory.All,
		Price:       PriceRange{Min: DefaultMinPrice, Max: DefaultMaxPrice},
		SearchQuery: "",
		Brand:       AnyBrand,
	}
}

// Match reports whether p satisfies every criterion.
func (f Filters) Match(p Product) bool {
	return f.matchCategory(p) &&
		f.Price.Contains(p.Price) &&
		f.matchSearch(p) &&
		f.matchBrand(p)
}

func (f Filters) matchCategory(p Product) bool {
	return domcategory.IsAll(f.Category) || p.Category == f.Category
}

func (f Filters) matchSearch(p Product) bool {
	return f.SearchQuery == "" || containsFold(p.Title, f.SearchQuery)
}

func (f Filters) matchBrand(p Product) bool {
	return IsAnyBrand(f.Brand) || containsFold(p.Title, f.Brand)
}

// IsAnyBrand reports whether brand is the wildcard, ignoring surrounding
// whitespace the same way category.IsAll does.
func IsAnyBrand(brand string) bool {
	return strings.TrimSpace(brand) == AnyBrand
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Apply returns the products of collection that match f, in collection order.
func (f Filters) Apply(collection []Product) []Product {
	visible := make([]Product, 0, len(collection))
	for _, p := range collection {
		if f.Match(p) {
			visible = append(visible, p)
		}
	}
	return visible
}
