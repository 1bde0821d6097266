package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domcart "example.com/storefront/internal/domain/cart"
	domorder "example.com/storefront/internal/domain/order"
	"example.com/storefront/internal/pkg/clock"
)

type CartStore interface {
	Items() []domcart.LineItem
	Clear()
}

// Publisher receives every placed order.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, order *domorder.Order) error
}

type Request struct {
	Shipping domorder.ShippingAddress
	Payment  domorder.PaymentInfo
}

type Service struct {
	cart       CartStore
	clock      clock.Clock
	publishers []Publisher
	newID      func() string
}

func NewService(cart CartStore, clk clock.Clock, publishers ...Publisher) *Service {
	return &Service{
		cart:       cart,
		clock:      clk,
		publishers: publishers,
		newID:      uuid.NewString,
	}
}

// Checkout turns the cart into a paid order and empties the cart. No payment
// is taken.
func (s *Service) Checkout(ctx context.Context, req Request) (*domorder.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !req.Shipping.Country.IsValid() {
		return nil, fmt.Errorf("%w: unsupported country %q", domorder.ErrCheckoutValidation, req.Shipping.Country)
	}

	items := s.cart.Items()
	if len(items) == 0 {
		return nil, domorder.ErrEmptyCart
	}

	total := decimal.Zero
	count := 0
	for _, item := range items {
		total = total.Add(item.Subtotal())
		count += item.Quantity
	}

	order := &domorder.Order{
		ID:        s.newID(),
		Status:    domorder.StatusPaid,
		Items:     items,
		Total:     total,
		ItemCount: count,
		Shipping:  req.Shipping,
		CardLast4: req.Payment.Last4(),
		PlacedAt:  s.clock.Now(),
	}

	s.cart.Clear()

	return order, nil
}

// Publish hands order to every publisher and joins their errors.
func (s *Service) Publish(ctx context.Context, order *domorder.Order) error {
	var errs []error
	for _, p := range s.publishers {
		if err := p.PublishOrderPlaced(ctx, order); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
