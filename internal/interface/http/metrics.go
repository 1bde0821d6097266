package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	requestCounter  *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	productsLoaded  prometheus.Gauge
	productsVisible prometheus.Gauge
	cartItems       prometheus.Gauge
	loadFailures    prometheus.Counter
	ordersPlaced    prometheus.Counter
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		productsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_products_loaded",
			Help: "Number of products in the loaded catalog",
		}),
		productsVisible: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_products_visible",
			Help: "Number of products passing the active filters",
		}),
		cartItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_cart_items",
			Help: "Number of units in the cart",
		}),
		loadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_product_load_failures_total",
			Help: "Number of failed catalog loads",
		}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Number of orders placed",
		}),
	}

	reg.MustRegister(
		m.requestCounter,
		m.requestLatency,
		m.productsLoaded,
		m.productsVisible,
		m.cartItems,
		m.loadFailures,
		m.ordersPlaced,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency per route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			endpoint = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
		m.requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}
