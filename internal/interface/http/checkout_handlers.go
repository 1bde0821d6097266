package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	domorder "example.com/storefront/internal/domain/order"
	checkoutuc "example.com/storefront/internal/usecase/checkout"
	"example.com/storefront/pkg/logger"
)

type shippingForm struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	Zip     string `json:"zip" validate:"required"`
	Country string `json:"country" validate:"required,oneof=USA Canada UK"`
	Email   string `json:"email" validate:"omitempty,email"`
}

type paymentForm struct {
	CardName   string `json:"card_name" validate:"required"`
	CardNumber string `json:"card_number" validate:"required,credit_card"`
	ExpiryDate string `json:"expiry_date" validate:"required,expiry"`
	CVV        string `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

type checkoutRequest struct {
	Shipping shippingForm `json:"shipping"`
	Payment  paymentForm  `json:"payment"`
}

func (req checkoutRequest) toUsecase() checkoutuc.Request {
	return checkoutuc.Request{
		Shipping: domorder.ShippingAddress{
			Name:    req.Shipping.Name,
			Address: req.Shipping.Address,
			City:    req.Shipping.City,
			Zip:     req.Shipping.Zip,
			Country: domorder.Country(req.Shipping.Country),
			Email:   req.Shipping.Email,
		},
		Payment: domorder.PaymentInfo{
			CardName:   req.Payment.CardName,
			CardNumber: req.Payment.CardNumber,
			ExpiryDate: req.Payment.ExpiryDate,
			CVV:        req.Payment.CVV,
		},
	}
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	order, err := a.placeOrder(r.Context(), req.toUsecase())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	a.metrics.ordersPlaced.Inc()
	logger.Info(r.Context()).
		Str("order_id", order.ID).
		Int("item_count", order.ItemCount).
		Str("total", order.Total.StringFixed(2)).
		Msg("order placed")

	a.background(func(ctx context.Context) {
		if err := a.checkoutSvc.Publish(ctx, order); err != nil {
			logger.Error(ctx).Err(err).Str("order_id", order.ID).Msg("failed to publish order")
		}
	})

	writeJSON(w, http.StatusCreated, mapOrder(order))
}

func (a *API) placeOrder(ctx context.Context, req checkoutuc.Request) (*domorder.Order, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.syncGauges()

	order, err := a.checkoutSvc.Checkout(ctx, req)
	if err != nil {
		return nil, err
	}
	a.orders.Record(order)
	return order, nil
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	orders := a.orders.List()

	resp := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, mapOrder(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	a.mu.Lock()
	defer a.mu.Unlock()

	order, err := a.orders.GetByID(id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}
