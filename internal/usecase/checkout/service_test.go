package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domcart "example.com/storefront/internal/domain/cart"
	domorder "example.com/storefront/internal/domain/order"
	"example.com/storefront/internal/pkg/clock"
)

type mockCartStore struct {
	items   []domcart.LineItem
	cleared bool
}

func (m *mockCartStore) Items() []domcart.LineItem {
	result := make([]domcart.LineItem, len(m.items))
	copy(result, m.items)
	return result
}

func (m *mockCartStore) Clear() {
	m.cleared = true
	m.items = nil
}

type mockPublisher struct {
	published []*domorder.Order
	err       error
}

func (m *mockPublisher) PublishOrderPlaced(ctx context.Context, order *domorder.Order) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, order)
	return nil
}

var placedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func validRequest() Request {
	return Request{
		Shipping: domorder.ShippingAddress{
			Name:    "Jane Doe",
			Address: "1 Main St",
			City:    "Springfield",
			Zip:     "12345",
			Country: domorder.CountryUSA,
			Email:   "jane@example.com",
		},
		Payment: domorder.PaymentInfo{
			CardName:   "Jane Doe",
			CardNumber: "4111 1111 1111 1111",
			ExpiryDate: "12/30",
			CVV:        "123",
		},
	}
}

func newTestService(cart *mockCartStore, publishers ...Publisher) *Service {
	svc := NewService(cart, clock.NewMockClock(placedAt), publishers...)
	svc.newID = func() string { return "order-1" }
	return svc
}

func TestCheckout_WithEmptyCart_ReturnsError(t *testing.T) {
	cart := &mockCartStore{}
	svc := newTestService(cart)

	order, err := svc.Checkout(context.Background(), validRequest())

	require.ErrorIs(t, err, domorder.ErrEmptyCart)
	require.Nil(t, order)
	require.False(t, cart.cleared, "cart should not be cleared for empty cart")
}

func TestCheckout_WithInvalidCountry_ReturnsError(t *testing.T) {
	tests := []struct {
		name    string
		country domorder.Country
	}{
		{name: "Empty country", country: ""},
		{name: "Unsupported country", country: "France"},
		{name: "Wrong case", country: "usa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := &mockCartStore{items: []domcart.LineItem{
				{ProductID: 1, Name: "Backpack", UnitPrice: decimal.NewFromInt(10), Quantity: 1},
			}}
			svc := newTestService(cart)

			req := validRequest()
			req.Shipping.Country = tt.country
			order, err := svc.Checkout(context.Background(), req)

			require.ErrorIs(t, err, domorder.ErrCheckoutValidation)
			require.Nil(t, order)
			require.False(t, cart.cleared)
		})
	}
}

func TestCheckout_Success_ClearsCart(t *testing.T) {
	cart := &mockCartStore{items: []domcart.LineItem{
		{ProductID: 1, Name: "Backpack", UnitPrice: decimal.RequireFromString("109.95"), Quantity: 2},
		{ProductID: 5, Name: "Bracelet", UnitPrice: decimal.NewFromInt(695), Quantity: 1},
	}}
	svc := newTestService(cart)

	order, err := svc.Checkout(context.Background(), validRequest())

	require.NoError(t, err)
	require.NotNil(t, order)
	require.Equal(t, "order-1", order.ID)
	require.Equal(t, domorder.StatusPaid, order.Status)
	require.Len(t, order.Items, 2)
	require.Equal(t, 3, order.ItemCount)
	require.Equal(t, "914.9", order.Total.String())
	require.Equal(t, "1111", order.CardLast4)
	require.Equal(t, placedAt, order.PlacedAt)
	require.Equal(t, "Springfield", order.Shipping.City)
	require.True(t, cart.cleared)
	require.Empty(t, cart.items)
}

func TestCheckout_CanceledContext(t *testing.T) {
	cart := &mockCartStore{items: []domcart.LineItem{
		{ProductID: 1, UnitPrice: decimal.NewFromInt(10), Quantity: 1},
	}}
	svc := newTestService(cart)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Checkout(ctx, validRequest())

	require.ErrorIs(t, err, context.Canceled)
	require.False(t, cart.cleared)
}

func TestCheckout_DefaultIDIsUUID(t *testing.T) {
	cart := &mockCartStore{items: []domcart.LineItem{
		{ProductID: 1, UnitPrice: decimal.NewFromInt(10), Quantity: 1},
	}}
	svc := NewService(cart, clock.NewMockClock(placedAt))

	order, err := svc.Checkout(context.Background(), validRequest())

	require.NoError(t, err)
	require.Len(t, order.ID, 36)
}

func TestPublish_AllPublishers(t *testing.T) {
	first := &mockPublisher{}
	second := &mockPublisher{}
	svc := newTestService(&mockCartStore{}, first, second)
	order := &domorder.Order{ID: "order-1"}

	err := svc.Publish(context.Background(), order)

	require.NoError(t, err)
	require.Len(t, first.published, 1)
	require.Len(t, second.published, 1)
}

func TestPublish_JoinsErrors(t *testing.T) {
	errBroker := errors.New("broker unavailable")
	failing := &mockPublisher{err: errBroker}
	working := &mockPublisher{}
	svc := newTestService(&mockCartStore{}, failing, working)

	err := svc.Publish(context.Background(), &domorder.Order{ID: "order-1"})

	require.ErrorIs(t, err, errBroker)
	require.Len(t, working.published, 1, "a failing publisher must not stop the others")
}

func TestPublish_NoPublishers(t *testing.T) {
	svc := newTestService(&mockCartStore{})

	require.NoError(t, svc.Publish(context.Background(), &domorder.Order{}))
}
