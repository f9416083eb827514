package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"financialproducts/internal/client"
	"financialproducts/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleProduct() models.FinancialProduct {
	return models.FinancialProduct{
		ID:           "trj-crd",
		Name:         "Tarjeta Credito",
		Description:  "Tarjeta de consumo bajo la modalidad de credito",
		Logo:         "https://example.com/visa.png",
		DateRelease:  "2030-01-01",
		DateRevision: "2031-01-01",
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *client.ProductClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return client.NewProductClient(srv.URL+"/bp/", zap.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requireAPIError(t *testing.T, err error) *client.APIError {
	t.Helper()
	require.Error(t, err)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr), "expected *client.APIError, got %T", err)
	return apiErr
}

func TestProductClient_List(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/bp/products", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"data": []models.FinancialProduct{sampleProduct()}})
	})

	products, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, sampleProduct(), products[0])
}

func TestProductClient_ListEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": nil})
	})

	products, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestProductClient_GetByID(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"bare product", sampleProduct()},
		{"data envelope", map[string]any{"data": sampleProduct()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/bp/products/trj-crd", r.URL.Path)
				writeJSON(w, http.StatusOK, tt.body)
			})

			p, err := c.GetByID(context.Background(), "trj-crd")
			require.NoError(t, err)
			assert.Equal(t, sampleProduct(), p)
		})
	}
}

func TestProductClient_EscapesIdentifier(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bp/products/verification/a%2Fb", r.URL.EscapedPath())
		writeJSON(w, http.StatusOK, false)
	})

	exists, err := c.VerifyID(context.Background(), "a/b")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProductClient_Create(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got models.FinancialProduct
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, sampleProduct(), got)

		writeJSON(w, http.StatusOK, map[string]any{"message": "Product added successfully", "data": got})
	})

	res, err := c.Create(context.Background(), sampleProduct())
	require.NoError(t, err)
	assert.Equal(t, "Product added successfully", res.Message)
	assert.Equal(t, sampleProduct(), res.Data)
}

func TestProductClient_UpdateSendsMutableFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/bp/products/trj-crd", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "id")
		assert.Equal(t, "Tarjeta Credito", body["name"])

		writeJSON(w, http.StatusOK, map[string]any{"message": "Product updated successfully", "data": sampleProduct()})
	})

	res, err := c.Update(context.Background(), "trj-crd", sampleProduct())
	require.NoError(t, err)
	assert.Equal(t, "Product updated successfully", res.Message)
}

func TestProductClient_Delete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeJSON(w, http.StatusOK, map[string]any{"message": "Product removed successfully"})
	})

	res, err := c.Delete(context.Background(), "trj-crd")
	require.NoError(t, err)
	assert.Equal(t, "Product removed successfully", res.Message)
}

func TestProductClient_VerifyID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, r.URL.Path == "/bp/products/verification/trj-crd")
	})

	exists, err := c.VerifyID(context.Background(), "trj-crd")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = c.VerifyID(context.Background(), "other")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProductClient_ErrorNormalization(t *testing.T) {
	badRequest := map[string]any{
		"name":    "BadRequestError",
		"message": "Invalid body, check 'errors' property for more info.",
		"errors":  map[string]string{"name": "Name is required"},
	}

	tests := []struct {
		name       string
		call       func(c *client.ProductClient) error
		status     int
		body       any
		wantMsg    string
		wantErrors map[string]string
	}{
		{
			name:    "list not found",
			call:    func(c *client.ProductClient) error { _, err := c.List(context.Background()); return err },
			status:  http.StatusNotFound,
			body:    map[string]any{"message": "ignored"},
			wantMsg: "no products found",
		},
		{
			name:    "list server error",
			call:    func(c *client.ProductClient) error { _, err := c.List(context.Background()); return err },
			status:  http.StatusInternalServerError,
			wantMsg: "unexpected error while fetching products",
		},
		{
			name:    "get not found",
			call:    func(c *client.ProductClient) error { _, err := c.GetByID(context.Background(), "nope"); return err },
			status:  http.StatusNotFound,
			wantMsg: "product not found",
		},
		{
			name:    "get bad gateway",
			call:    func(c *client.ProductClient) error { _, err := c.GetByID(context.Background(), "nope"); return err },
			status:  http.StatusBadGateway,
			wantMsg: "unexpected error while fetching the product",
		},
		{
			name:       "create bad request keeps body message and errors",
			call:       func(c *client.ProductClient) error { _, err := c.Create(context.Background(), sampleProduct()); return err },
			status:     http.StatusBadRequest,
			body:       badRequest,
			wantMsg:    "Invalid body, check 'errors' property for more info.",
			wantErrors: map[string]string{"name": "Name is required"},
		},
		{
			name:    "create bad request without body",
			call:    func(c *client.ProductClient) error { _, err := c.Create(context.Background(), sampleProduct()); return err },
			status:  http.StatusBadRequest,
			wantMsg: "invalid request, check the submitted data",
		},
		{
			name:    "update not found",
			call:    func(c *client.ProductClient) error { _, err := c.Update(context.Background(), "x", sampleProduct()); return err },
			status:  http.StatusNotFound,
			wantMsg: "the requested resource was not found",
		},
		{
			name:    "update server error",
			call:    func(c *client.ProductClient) error { _, err := c.Update(context.Background(), "x", sampleProduct()); return err },
			status:  http.StatusInternalServerError,
			wantMsg: "unexpected server error",
		},
		{
			name:    "delete not found",
			call:    func(c *client.ProductClient) error { _, err := c.Delete(context.Background(), "x"); return err },
			status:  http.StatusNotFound,
			wantMsg: "product not found",
		},
		{
			name:    "delete server error",
			call:    func(c *client.ProductClient) error { _, err := c.Delete(context.Background(), "x"); return err },
			status:  http.StatusServiceUnavailable,
			wantMsg: "unexpected error while deleting the product",
		},
		{
			name:       "errors given as a list",
			call:       func(c *client.ProductClient) error { _, err := c.Create(context.Background(), sampleProduct()); return err },
			status:     http.StatusBadRequest,
			body:       map[string]any{"message": "Invalid body", "errors": []string{"id too short"}},
			wantMsg:    "Invalid body",
			wantErrors: map[string]string{"0": "id too short"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, tt.status, tt.body)
			})

			apiErr := requireAPIError(t, tt.call(c))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.wantErrors, apiErr.Errors)
		})
	}
}

func TestProductClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := client.NewProductClient(url, zap.NewNop())
	_, err := c.List(context.Background())

	apiErr := requireAPIError(t, err)
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, "unexpected error while fetching products", apiErr.Message)
	assert.NotNil(t, errors.Unwrap(apiErr))
}

func TestProductClient_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, true)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.VerifyID(ctx, "trj-crd")
	apiErr := requireAPIError(t, err)
	assert.ErrorIs(t, apiErr, context.Canceled)
}

func TestProductClient_MalformedSuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("not json"))
	})

	_, err := c.List(context.Background())
	apiErr := requireAPIError(t, err)
	assert.Equal(t, http.StatusOK, apiErr.Status)
	assert.Equal(t, "unexpected error while fetching products", apiErr.Message)
}

func TestAPIError_FieldMessages(t *testing.T) {
	apiErr := &client.APIError{Errors: map[string]string{"name": "b", "id": "a"}}
	assert.Equal(t, []string{"a", "b"}, apiErr.FieldMessages())
}
