package http

import (
	"errors"
	"net/http"

	domcart "example.com/storefront/internal/domain/cart"
	domproduct "example.com/storefront/internal/domain/product"
)

type addCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"omitempty,gt=0"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	writeJSON(w, http.StatusOK, mapCart(a.cart.Snapshot()))
}

func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	p, err := a.products.Get(req.ProductID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if a.cart.Quantity(p.ID)+req.Quantity > p.Stock() {
		handleDomainError(w, domproduct.ErrOutOfStock)
		return
	}

	a.cart.Add(domcart.LineItem{
		ProductID: p.ID,
		Name:      p.Title,
		UnitPrice: p.Price,
		Image:     p.Image,
	}, req.Quantity)
	a.syncGauges()

	writeJSON(w, http.StatusCreated, mapCart(a.cart.Snapshot()))
}

func (a *API) handleSetCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req setQuantityRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Items whose product left the catalog can still be adjusted.
	p, err := a.products.Get(id)
	switch {
	case err == nil && req.Quantity > p.Stock():
		handleDomainError(w, domproduct.ErrOutOfStock)
		return
	case err != nil && !errors.Is(err, domproduct.ErrProductNotFound):
		handleDomainError(w, err)
		return
	}

	a.cart.SetQuantity(id, req.Quantity)
	a.syncGauges()

	writeJSON(w, http.StatusOK, mapCart(a.cart.Snapshot()))
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.cart.Remove(id)
	a.syncGauges()

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cart.Clear()
	a.syncGauges()

	w.WriteHeader(http.StatusNoContent)
}
