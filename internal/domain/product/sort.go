package product

import (
	"cmp"
	"slices"
	"strings"
)

type SortOption string

const (
	SortNone       SortOption = "none"
	SortPriceAsc   SortOption = "price-asc"
	SortPriceDesc  SortOption = "price-desc"
	SortPopularity SortOption = "popularity"
)

func (o SortOption) IsValid() bool {
	switch o {
	case SortNone, SortPriceAsc, SortPriceDesc, SortPopularity:
		return true
	default:
		return false
	}
}

// ParseSortOption accepts the dropdown values plus "" for none and
// "rating-desc" for popularity.
func ParseSortOption(s string) (SortOption, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "":
		return SortNone, nil
	case "rating-desc":
		return SortPopularity, nil
	}
	o := SortOption(v)
	if !o.IsValid() {
		return "", ErrInvalidSortOption
	}
	return o, nil
}

// Sort orders products in place. The sort is stable; ties keep their
// prior relative order.
func (o SortOption) Sort(products []Product) {
	switch o {
	case SortPriceAsc:
		slices.SortStableFunc(products, func(a, b Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(products, func(a, b Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortPopularity:
		slices.SortStableFunc(products, func(a, b Product) int {
			return cmp.Compare(b.Rating.Rate, a.Rating.Rate)
		})
	}
}
