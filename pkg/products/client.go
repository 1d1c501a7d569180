// Package products is the HTTP client for the product service, which owns the
// catalog and the admin price surface. The storefront only ever holds
// read-only copies of products.
package products

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	PriceUSDC decimal.Decimal `json:"price_usdc"`
	ImagePath string          `json:"image_path"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

type PriceUpdate struct {
	PriceUSDC decimal.Decimal `json:"price_usdc"`
}

// APIError is a response the product service answered with. Anything else
// (connection refused, timeout) comes back as a plain wrapped error.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("product service returned %d: %s", e.StatusCode, e.Detail)
}

// defines the methods that a product catalog client must implement.
type Client interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	UpdatePrice(ctx context.Context, id int64, update PriceUpdate) (*Product, error)
}

type productsClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) Client {
	return &productsClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListProducts implements Client.
func (c *productsClient) ListProducts(ctx context.Context) ([]Product, error) {
	var list []Product
	if err := c.do(ctx, http.MethodGet, "/api-staging/products", nil, &list); err != nil {
		return nil, err
	}

	return list, nil
}

// GetProduct implements Client.
func (c *productsClient) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api-staging/products/%d", id), nil, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

// UpdatePrice implements Client.
func (c *productsClient) UpdatePrice(ctx context.Context, id int64, update PriceUpdate) (*Product, error) {
	var product Product

	path := fmt.Sprintf("/api-staging/admin/products/%d/price", id)
	if err := c.do(ctx, http.MethodPut, path, update, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (c *productsClient) do(ctx context.Context, method, path string, body, dest any) error {
	var reqBody io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}

		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("product service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Detail: decodeDetail(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode product service response: %w", err)
	}

	return nil
}

// the product service reports errors as {"detail": "..."}.
func decodeDetail(body io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}

	if err := json.NewDecoder(body).Decode(&payload); err != nil || payload.Detail == "" {
		return "request failed"
	}

	return payload.Detail
}
