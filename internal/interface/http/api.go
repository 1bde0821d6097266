package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"

	domcart "example.com/storefront/internal/domain/cart"
	domcategory "example.com/storefront/internal/domain/category"
	domorder "example.com/storefront/internal/domain/order"
	domproduct "example.com/storefront/internal/domain/product"
	cartuc "example.com/storefront/internal/usecase/cart"
	checkoutuc "example.com/storefront/internal/usecase/checkout"
	orderuc "example.com/storefront/internal/usecase/order"
	productuc "example.com/storefront/internal/usecase/product"
	"example.com/storefront/pkg/logger"
)

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)

// API serves one storefront session. Every store access happens under mu.
type API struct {
	mu          sync.Mutex
	products    *productuc.Store
	cart        *cartuc.Store
	checkoutSvc *checkoutuc.Service
	orders      *orderuc.History
	source      domproduct.Source
	metrics     *Metrics
	validator   *validator.Validate

	baseCtx context.Context
	wg      sync.WaitGroup
}

type Dependencies struct {
	ProductStore    *productuc.Store
	CartStore       *cartuc.Store
	CheckoutService *checkoutuc.Service
	OrderHistory    *orderuc.History
	Source          domproduct.Source
	Metrics         *Metrics
	// BaseContext bounds background work such as reloads and order
	// notifications. Defaults to context.Background.
	BaseContext context.Context
}

func NewAPI(deps Dependencies) *API {
	validate := validator.New()
	if err := validate.RegisterValidation("expiry", validateExpiry); err != nil {
		panic(fmt.Sprintf("register expiry validation: %v", err))
	}

	metrics := deps.Metrics
	if metrics == nil {
		metrics = NewMetrics(prometheus.NewRegistry())
	}
	orders := deps.OrderHistory
	if orders == nil {
		orders = orderuc.NewHistory()
	}
	baseCtx := deps.BaseContext
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	return &API{
		products:    deps.ProductStore,
		cart:        deps.CartStore,
		checkoutSvc: deps.CheckoutService,
		orders:      orders,
		source:      deps.Source,
		metrics:     metrics,
		validator:   validate,
		baseCtx:     baseCtx,
	}
}

func validateExpiry(fl validator.FieldLevel) bool {
	return expiryPattern.MatchString(fl.Field().String())
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(a.metrics.Middleware)
	r.Use(chimw.AllowContentType("application/json", "text/plain"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", a.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", a.handleListProducts)
		r.Post("/products/reload", a.handleReloadProducts)
		r.Get("/products/{id}", a.handleGetProduct)
		r.Get("/products/{id}/related", a.handleRelatedProducts)
		r.Get("/categories", a.handleListCategories)

		r.Route("/filters", func(fr chi.Router) {
			fr.Put("/category", a.handleSetCategory)
			fr.Put("/price", a.handleSetPriceRange)
			fr.Put("/search", a.handleSetSearchQuery)
			fr.Put("/brand", a.handleSetBrand)
		})
		r.Put("/sort", a.handleSetSort)

		r.Route("/cart", func(cr chi.Router) {
			cr.Get("/", a.handleGetCart)
			cr.Delete("/", a.handleClearCart)
			cr.Post("/items", a.handleAddCartItem)
			cr.Put("/items/{id}", a.handleSetCartItemQuantity)
			cr.Delete("/items/{id}", a.handleRemoveCartItem)
		})

		r.Post("/checkout", a.handleCheckout)
		r.Get("/orders", a.handleListOrders)
		r.Get("/orders/{id}", a.handleGetOrder)
	})

	return r
}

// Refresh runs one load attempt against the product source. The fetch
// happens outside the session lock; a newer attempt started meanwhile wins.
func (a *API) Refresh(ctx context.Context) error {
	attempt := a.beginLoad()
	items, err := a.source.FetchAll(ctx)
	if !a.completeLoad(attempt, items, err) {
		logger.Debug(ctx).Uint64("attempt", attempt).Msg("superseded product load dropped")
		return nil
	}
	if err != nil {
		a.metrics.loadFailures.Inc()
		logger.Error(ctx).Err(err).Uint64("attempt", attempt).Msg("failed to load products")
		return err
	}

	logger.Info(ctx).Uint64("attempt", attempt).Int("count", len(items)).Msg("products loaded")
	return nil
}

func (a *API) beginLoad() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.syncGauges()
	return a.products.BeginLoad()
}

func (a *API) completeLoad(attempt uint64, items []domproduct.Product, err error) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.syncGauges()
	return a.products.Complete(attempt, items, err)
}

// StartRefresh runs Refresh in the background.
func (a *API) StartRefresh() {
	a.background(func(ctx context.Context) {
		_ = a.Refresh(ctx)
	})
}

// Wait blocks until background work started by the API has finished.
func (a *API) Wait() {
	a.wg.Wait()
}

func (a *API) background(fn func(ctx context.Context)) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn(a.baseCtx)
	}()
}

// syncGauges must be called with mu held.
func (a *API) syncGauges() {
	snap := a.products.Snapshot()
	a.metrics.productsLoaded.Set(float64(snap.Total))
	a.metrics.productsVisible.Set(float64(len(snap.Products)))
	a.metrics.cartItems.Set(float64(a.cart.Count()))
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// respondBadRequest lists the failing fields when err comes from the
// validator.
func respondBadRequest(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Namespace()] = fe.Tag()
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Details: details})
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	idStr := chi.URLParam(r, key)
	return strconv.ParseInt(idStr, 10, 64)
}

func mapProduct(p domproduct.Product) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"title":       p.Title,
		"price":       p.Price.InexactFloat64(),
		"category":    p.Category,
		"description": p.Description,
		"image":       p.Image,
		"rating": map[string]any{
			"rate":  p.Rating.Rate,
			"count": p.Rating.Count,
		},
	}
}

func mapProducts(products []domproduct.Product) []map[string]any {
	resp := make([]map[string]any, 0, len(products))
	for _, p := range products {
		resp = append(resp, mapProduct(p))
	}
	return resp
}

func mapFilters(f domproduct.Filters) map[string]any {
	return map[string]any{
		"category": f.Category,
		"price": map[string]any{
			"min": f.Price.Min.InexactFloat64(),
			"max": f.Price.Max.InexactFloat64(),
		},
		"search": f.SearchQuery,
		"brand":  f.Brand,
	}
}

func mapSnapshot(s productuc.Snapshot) map[string]any {
	return map[string]any{
		"status":  s.Status,
		"filters": mapFilters(s.Filters),
		"sort":    s.Sort,
		"data":    mapProducts(s.Products),
		"count":   len(s.Products),
		"total":   s.Total,
	}
}

func mapCategory(c domcategory.Category) map[string]any {
	return map[string]any{
		"name":          c.Name,
		"product_count": c.ProductCount,
	}
}

func mapLineItems(items []domcart.LineItem) []map[string]any {
	resp := make([]map[string]any, 0, len(items))
	for _, item := range items {
		resp = append(resp, map[string]any{
			"product_id": item.ProductID,
			"name":       item.Name,
			"price":      item.UnitPrice.InexactFloat64(),
			"quantity":   item.Quantity,
			"subtotal":   item.Subtotal().InexactFloat64(),
			"image":      item.Image,
		})
	}
	return resp
}

func mapCart(cart domcart.Cart) map[string]any {
	return map[string]any{
		"items": mapLineItems(cart.Items),
		"total": cart.Total.InexactFloat64(),
		"count": cart.Count,
	}
}

func mapOrder(o *domorder.Order) map[string]any {
	return map[string]any{
		"id":         o.ID,
		"status":     o.Status,
		"items":      mapLineItems(o.Items),
		"total":      o.Total.InexactFloat64(),
		"item_count": o.ItemCount,
		"shipping": map[string]any{
			"name":    o.Shipping.Name,
			"address": o.Shipping.Address,
			"city":    o.Shipping.City,
			"zip":     o.Shipping.Zip,
			"country": o.Shipping.Country,
			"email":   o.Shipping.Email,
		},
		"card_last4": o.CardLast4,
		"placed_at":  o.PlacedAt,
	}
}

func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domproduct.ErrInvalidSortOption):
		respondError(w, http.StatusBadRequest, err)
	case errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, domorder.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domproduct.ErrOutOfStock),
		errors.Is(err, domorder.ErrEmptyCart),
		errors.Is(err, domorder.ErrCheckoutValidation):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domproduct.ErrFetchFailed):
		respondError(w, http.StatusServiceUnavailable, domproduct.ErrFetchFailed)
	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}
