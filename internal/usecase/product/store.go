package product

import (
	"github.com/shopspring/decimal"

	domcategory "example.com/storefront/internal/domain/category"
	dom "example.com/storefront/internal/domain/product"
)

const DefaultRelatedLimit = 4

type Snapshot struct {
	Status   dom.Status
	Filters  dom.Filters
	Sort     dom.SortOption
	Products []dom.Product
	Total    int
	Err      error
}

// Store holds the authoritative product collection and the derived visible
// list. It is not safe for concurrent use; callers serialise access.
type Store struct {
	products []dom.Product
	visible  []dom.Product
	filters  dom.Filters
	sort     dom.SortOption
	status   dom.Status
	attempt  uint64
	loadErr  error
}

func NewStore() *Store {
	return &Store{
		products: []dom.Product{},
		visible:  []dom.Product{},
		filters:  dom.DefaultFilters(),
		sort:     dom.SortNone,
		status:   dom.StatusIdle,
	}
}

func (s *Store) Load(collection []dom.Product) {
	s.products = make([]dom.Product, len(collection))
	copy(s.products, collection)
	s.status = dom.StatusReady
	s.loadErr = nil
	s.refilter()
}

// BeginLoad marks the store as loading and returns the attempt number that
// must be passed to Complete.
func (s *Store) BeginLoad() uint64 {
	s.attempt++
	s.status = dom.StatusLoading
	s.loadErr = nil
	return s.attempt
}

// Complete installs the outcome of a load attempt. Outcomes of superseded
// attempts are dropped and false is returned.
func (s *Store) Complete(attempt uint64, collection []dom.Product, err error) bool {
	if attempt != s.attempt {
		return false
	}
	if err != nil {
		s.products = []dom.Product{}
		s.visible = []dom.Product{}
		s.status = dom.StatusFailed
		s.loadErr = err
		return true
	}
	s.Load(collection)
	return true
}

func (s *Store) SetCategory(value string) {
	s.filters.Category = value
	s.refilter()
}

func (s *Store) SetPriceRange(min, max decimal.Decimal) {
	s.filters.Price = dom.PriceRange{Min: min, Max: max}
	s.refilter()
}

func (s *Store) SetSearchQuery(text string) {
	s.filters.SearchQuery = text
	s.refilter()
}

func (s *Store) SetBrand(text string) {
	s.filters.Brand = text
	s.refilter()
}

// SetSort reorders the current visible list without filtering again.
func (s *Store) SetSort(option dom.SortOption) {
	s.sort = option
	option.Sort(s.visible)
}

// refilter always starts from the full collection so that criteria commute.
func (s *Store) refilter() {
	s.visible = s.filters.Apply(s.products)
	s.sort.Sort(s.visible)
}

func (s *Store) Status() dom.Status {
	return s.status
}

func (s *Store) Filters() dom.Filters {
	return s.filters
}

func (s *Store) Snapshot() Snapshot {
	visible := make([]dom.Product, len(s.visible))
	copy(visible, s.visible)
	return Snapshot{
		Status:   s.status,
		Filters:  s.filters,
		Sort:     s.sort,
		Products: visible,
		Total:    len(s.products),
		Err:      s.loadErr,
	}
}

func (s *Store) Get(id int64) (dom.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return dom.Product{}, dom.ErrProductNotFound
}

// Related returns up to limit other products from the same category.
func (s *Store) Related(id int64, limit int) ([]dom.Product, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	related := make([]dom.Product, 0, min(limit, len(s.products)))
	for _, candidate := range s.products {
		if len(related) == limit {
			break
		}
		if candidate.ID == p.ID || candidate.Category != p.Category {
			continue
		}
		related = append(related, candidate)
	}
	return related, nil
}

// Categories lists the distinct categories of the collection in first-seen
// order.
func (s *Store) Categories() []domcategory.Category {
	index := make(map[string]int)
	categories := make([]domcategory.Category, 0)
	for _, p := range s.products {
		if i, ok := index[p.Category]; ok {
			categories[i].ProductCount++
			continue
		}
		index[p.Category] = len(categories)
		categories = append(categories, domcategory.Category{Name: p.Category, ProductCount: 1})
	}
	return categories
}
