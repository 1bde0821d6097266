package order

import (
	domorder "example.com/storefront/internal/domain/order"
)

// History keeps the orders placed during the session, newest last. Like the
// stores it is not safe for concurrent use.
type History struct {
	orders []*domorder.Order
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Record(o *domorder.Order) {
	h.orders = append(h.orders, o)
}

func (h *History) List() []*domorder.Order {
	result := make([]*domorder.Order, len(h.orders))
	copy(result, h.orders)
	return result
}

func (h *History) GetByID(id string) (*domorder.Order, error) {
	for _, o := range h.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, domorder.ErrOrderNotFound
}
