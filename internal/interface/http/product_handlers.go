package http

import (
	"net/http"
	"strconv"

	domcategory "example.com/storefront/internal/domain/category"
	domproduct "example.com/storefront/internal/domain/product"
	productuc "example.com/storefront/internal/usecase/product"
)

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := a.products.Snapshot()
	if snap.Status == domproduct.StatusFailed {
		handleDomainError(w, snap.Err)
		return
	}
	writeJSON(w, http.StatusOK, mapSnapshot(snap))
}

func (a *API) handleReloadProducts(w http.ResponseWriter, r *http.Request) {
	a.StartRefresh()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": string(domproduct.StatusLoading)})
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	p, err := a.products.Get(id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (a *API) handleRelatedProducts(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	limit := productuc.DefaultRelatedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondError(w, http.StatusBadRequest, errInvalidLimit)
			return
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	related, err := a.products.Related(id, limit)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": mapProducts(related)})
}

func (a *API) handleListCategories(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	categories := a.products.Categories()
	total := a.products.Snapshot().Total

	resp := make([]map[string]any, 0, len(categories)+1)
	resp = append(resp, mapCategory(domcategory.Category{Name: domcategory.All, ProductCount: total}))
	for _, c := range categories {
		resp = append(resp, mapCategory(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}
