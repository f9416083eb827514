// Package client provides a typed REST client for the product service
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"financialproducts/internal/metrics"
	"financialproducts/internal/models"

	"go.uber.org/zap"
)

const (
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 1 << 20
)

// MutationResult is the payload of create, update and delete
type MutationResult struct {
	Message string                  `json:"message"`
	Data    models.FinancialProduct `json:"data"`
}

// ProductClient talks to the products REST API
type ProductClient struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// Option configures a ProductClient
type Option func(*ProductClient)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *ProductClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the request timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(c *ProductClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// NewProductClient creates a client for the API rooted at baseURL, e.g. http://localhost:3002/bp
func NewProductClient(baseURL string, log *zap.Logger, opts ...Option) *ProductClient {
	if log == nil {
		log = zap.NewNop()
	}
	c := &ProductClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches the whole catalog
func (c *ProductClient) List(ctx context.Context) ([]models.FinancialProduct, error) {
	var resp models.ProductListResponse
	if err := c.do(ctx, OpList, http.MethodGet, "/products", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []models.FinancialProduct{}, nil
	}
	return resp.Data, nil
}

// GetByID fetches one product. Both a bare product and a {"data": product} envelope are accepted.
func (c *ProductClient) GetByID(ctx context.Context, id string) (models.FinancialProduct, error) {
	var raw json.RawMessage
	if err := c.do(ctx, OpGet, http.MethodGet, productPath(id), nil, &raw); err != nil {
		return models.FinancialProduct{}, err
	}

	var envelope struct {
		Data *models.FinancialProduct `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Data != nil {
		return *envelope.Data, nil
	}

	var p models.FinancialProduct
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.FinancialProduct{}, &APIError{
			Status:  http.StatusOK,
			Message: messages[OpGet].other,
			Err:     fmt.Errorf("decode product: %w", err),
		}
	}
	return p, nil
}

// Create adds a product
func (c *ProductClient) Create(ctx context.Context, p models.FinancialProduct) (MutationResult, error) {
	var res MutationResult
	err := c.do(ctx, OpCreate, http.MethodPost, "/products", p, &res)
	return res, err
}

// Update replaces the mutable fields of product id
func (c *ProductClient) Update(ctx context.Context, id string, p models.FinancialProduct) (MutationResult, error) {
	var res MutationResult
	err := c.do(ctx, OpUpdate, http.MethodPut, productPath(id), p.UpdateRequest(), &res)
	return res, err
}

// Delete removes product id
func (c *ProductClient) Delete(ctx context.Context, id string) (MutationResult, error) {
	var res MutationResult
	err := c.do(ctx, OpDelete, http.MethodDelete, productPath(id), nil, &res)
	return res, err
}

// VerifyID reports whether id is already in use
func (c *ProductClient) VerifyID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := c.do(ctx, OpVerify, http.MethodGet, "/products/verification/"+url.PathEscape(id), nil, &exists)
	return exists, err
}

func productPath(id string) string {
	return "/products/" + url.PathEscape(id)
}

func (c *ProductClient) do(ctx context.Context, op Operation, method, path string, in, out any) error {
	start := time.Now()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return c.fail(op, method, path, start, transportError(op, fmt.Errorf("encode request: %w", err)))
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return c.fail(op, method, path, start, transportError(op, fmt.Errorf("build request: %w", err)))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(op, method, path, start, transportError(op, fmt.Errorf("%s %s: %w", method, path, err)))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return c.fail(op, method, path, start, transportError(op, fmt.Errorf("read response: %w", err)))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.fail(op, method, path, start, responseError(op, resp.StatusCode, data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return c.fail(op, method, path, start, &APIError{
				Status:  resp.StatusCode,
				Message: messages[op].other,
				Err:     fmt.Errorf("decode response: %w", err),
			})
		}
	}

	metrics.ClientRequests.WithLabelValues(string(op), strconv.Itoa(resp.StatusCode)).Inc()
	c.log.Debug("client.request",
		zap.String("operation", string(op)),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (c *ProductClient) fail(op Operation, method, path string, start time.Time, apiErr *APIError) error {
	status := "error"
	if apiErr.Status != 0 {
		status = strconv.Itoa(apiErr.Status)
	}
	metrics.ClientRequests.WithLabelValues(string(op), status).Inc()

	fields := []zap.Field{
		zap.String("operation", string(op)),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", apiErr.Status),
		zap.String("message", apiErr.Message),
		zap.Duration("duration", time.Since(start)),
	}
	if apiErr.Err != nil {
		fields = append(fields, zap.Error(apiErr.Err))
	}
	c.log.Warn("client.request_failed", fields...)
	return apiErr
}
