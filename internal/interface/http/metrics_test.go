package http

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	domproduct "example.com/storefront/internal/domain/product"
)

func TestMetrics_RequestsByRoutePattern(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodGet, "/api/v1/products/1", nil)
	env.do(t, http.MethodGet, "/api/v1/products/2", nil)
	env.do(t, http.MethodGet, "/api/v1/products/999", nil)

	m := env.api.metrics
	require.Equal(t, float64(2), testutil.ToFloat64(m.requestCounter.WithLabelValues("GET", "/api/v1/products/{id}", "200")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.requestCounter.WithLabelValues("GET", "/api/v1/products/{id}", "404")))
}

func TestMetrics_StoreGauges(t *testing.T) {
	env := newTestEnv(t)
	m := env.api.metrics

	require.Equal(t, float64(8), testutil.ToFloat64(m.productsLoaded))
	require.Equal(t, float64(8), testutil.ToFloat64(m.productsVisible))

	env.do(t, http.MethodPut, "/api/v1/filters/category", map[string]any{"category": "jewelery"})
	env.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": 5, "quantity": 2})

	require.Equal(t, float64(2), testutil.ToFloat64(m.productsVisible))
	require.Equal(t, float64(2), testutil.ToFloat64(m.cartItems))

	env.do(t, http.MethodPost, "/api/v1/checkout", validCheckoutBody())

	require.Equal(t, float64(0), testutil.ToFloat64(m.cartItems))
	require.Equal(t, float64(1), testutil.ToFloat64(m.ordersPlaced))
}

func TestMetrics_LoadFailures(t *testing.T) {
	env := newTestEnv(t)
	env.source.set(nil, domproduct.ErrFetchFailed)

	require.Error(t, env.api.Refresh(t.Context()))

	m := env.api.metrics
	require.Equal(t, float64(1), testutil.ToFloat64(m.loadFailures))
	require.Equal(t, float64(0), testutil.ToFloat64(m.productsLoaded))
}

func TestMetrics_Endpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/v1/products", nil)

	rec := env.do(t, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "storefront_http_requests_total")
	require.Contains(t, rec.Body.String(), "storefront_products_loaded 8")
}
