package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	domproduct "example.com/storefront/internal/domain/product"
)

type setCategoryRequest struct {
	Category string `json:"category" validate:"required"`
}

type setPriceRangeRequest struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gte=0,gtefield=Min"`
}

type setSearchRequest struct {
	Query string `json:"query" validate:"max=200"`
}

type setBrandRequest struct {
	Brand string `json:"brand" validate:"required"`
}

type setSortRequest struct {
	Option string `json:"option"`
}

// writeView answers a command with the resulting view; mu must be held.
func (a *API) writeView(w http.ResponseWriter) {
	a.syncGauges()
	writeJSON(w, http.StatusOK, mapSnapshot(a.products.Snapshot()))
}

func (a *API) handleSetCategory(w http.ResponseWriter, r *http.Request) {
	var req setCategoryRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.products.SetCategory(req.Category)
	a.writeView(w)
}

func (a *API) handleSetPriceRange(w http.ResponseWriter, r *http.Request) {
	var req setPriceRangeRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.products.SetPriceRange(decimal.NewFromFloat(req.Min), decimal.NewFromFloat(req.Max))
	a.writeView(w)
}

func (a *API) handleSetSearchQuery(w http.ResponseWriter, r *http.Request) {
	var req setSearchRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.products.SetSearchQuery(req.Query)
	a.writeView(w)
}

func (a *API) handleSetBrand(w http.ResponseWriter, r *http.Request) {
	var req setBrandRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.products.SetBrand(req.Brand)
	a.writeView(w)
}

func (a *API) handleSetSort(w http.ResponseWriter, r *http.Request) {
	var req setSortRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	option, err := domproduct.ParseSortOption(req.Option)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.products.SetSort(option)
	a.writeView(w)
}
