package fakestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"example.com/storefront/internal/domain/product"
	"example.com/storefront/pkg/logger"
	"example.com/storefront/pkg/retry"
)

const maxBodySize = 8 << 20

type productDTO struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

func (d productDTO) toDomain() product.Product {
	return product.Product{
		ID:          d.ID,
		Title:       d.Title,
		Price:       d.Price,
		Category:    d.Category,
		Description: d.Description,
		Image:       d.Image,
		Rating: product.Rating{
			Rate:  d.Rating.Rate,
			Count: d.Rating.Count,
		},
	}
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string {
	return "decode products: " + e.err.Error()
}

func (e *decodeError) Unwrap() error {
	return e.err
}

// retryable reports whether another attempt may succeed: transport failures
// and 5xx answers.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError
	}
	var de *decodeError
	return !errors.As(err, &de)
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithBackoff(b retry.Backoff) Option {
	return func(cl *Client) {
		cl.retry.Backoff = b
	}
}

// Client fetches the product catalog from a Fake Store compatible endpoint.
type Client struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
	retry      retry.RetryConfig
}

func NewClient(url string, timeout time.Duration, maxAttempts int, opts ...Option) *Client {
	c := &Client{
		url:     url,
		timeout: timeout,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		retry: retry.RetryConfig{
			MaxAttempts: maxAttempts,
			ShouldRetry: retryable,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAll returns the full catalog. Every failure wraps product.ErrFetchFailed.
func (c *Client) FetchAll(ctx context.Context) ([]product.Product, error) {
	const op = "fakestore.FetchAll"

	products, err := retry.DoWithResult(ctx, c.retry, func() ([]product.Product, error) {
		return c.fetchOnce(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, product.ErrFetchFailed, err)
	}
	return products, nil
}

func (c *Client) fetchOnce(ctx context.Context) ([]product.Product, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &statusError{code: resp.StatusCode}
	}

	var dtos []productDTO
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&dtos); err != nil {
		return nil, &decodeError{err: err}
	}

	return toProducts(ctx, dtos), nil
}

// toProducts drops records with a negative price and every repeat of an id
// already seen, keeping the first occurrence.
func toProducts(ctx context.Context, dtos []productDTO) []product.Product {
	seen := make(map[int64]struct{}, len(dtos))
	products := make([]product.Product, 0, len(dtos))
	for _, d := range dtos {
		if d.Price.IsNegative() {
			logger.Warn(ctx).Int64("product_id", d.ID).Str("price", d.Price.String()).Msg("dropping product with negative price")
			continue
		}
		if _, ok := seen[d.ID]; ok {
			logger.Warn(ctx).Int64("product_id", d.ID).Msg("dropping product with duplicate id")
			continue
		}
		seen[d.ID] = struct{}{}
		products = append(products, d.toDomain())
	}
	return products
}
