package cart

import (
	"github.com/shopspring/decimal"

	domcart "example.com/storefront/internal/domain/cart"
)

// Store keeps at most one line item per product id. It is not safe for
// concurrent use; callers serialise access.
type Store struct {
	items []domcart.LineItem
}

func NewStore() *Store {
	return &Store{items: []domcart.LineItem{}}
}

// Add merges quantity into the existing line item for item.ProductID or
// appends item with that quantity. Non-positive quantities are ignored.
func (s *Store) Add(item domcart.LineItem, quantity int) {
	if quantity <= 0 {
		return
	}
	if i := s.indexOf(item.ProductID); i >= 0 {
		s.items[i].Quantity += quantity
		return
	}
	item.Quantity = quantity
	s.items = append(s.items, item)
}

// SetQuantity overwrites the quantity of a line item. A quantity of zero or
// less removes the item.
func (s *Store) SetQuantity(productID int64, quantity int) {
	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		s.removeAt(i)
		return
	}
	s.items[i].Quantity = quantity
}

func (s *Store) Remove(productID int64) {
	if i := s.indexOf(productID); i >= 0 {
		s.removeAt(i)
	}
}

func (s *Store) Clear() {
	s.items = []domcart.LineItem{}
}

func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Count is the number of units across all line items.
func (s *Store) Count() int {
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

func (s *Store) Quantity(productID int64) int {
	if i := s.indexOf(productID); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

func (s *Store) IsEmpty() bool {
	return len(s.items) == 0
}

func (s *Store) Items() []domcart.LineItem {
	items := make([]domcart.LineItem, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Store) Snapshot() domcart.Cart {
	return domcart.Cart{
		Items: s.Items(),
		Total: s.Total(),
		Count: s.Count(),
	}
}

func (s *Store) indexOf(productID int64) int {
	for i, item := range s.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.items = append(s.items[:i], s.items[i+1:]...)
}
