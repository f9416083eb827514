// Package testutil provides utilities for testing
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"financialproducts/internal/models"
	"financialproducts/internal/repository"
	"financialproducts/internal/repository/memory"
	"financialproducts/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestContext holds common test dependencies
type TestContext struct {
	T      *testing.T
	Repo   repository.ProductRepository
	Logger *zap.Logger
}

// NewTestContext creates a test context backed by an in-memory repository
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Initialize validators
	validation.Initialize()

	return &TestContext{
		T:      t,
		Repo:   memory.NewProductRepository(),
		Logger: zap.NewNop(),
	}
}

// ValidProduct returns a product that passes every rule today
func ValidProduct(id string) models.FinancialProduct {
	release := time.Now()
	return models.FinancialProduct{
		ID:           id,
		Name:         fmt.Sprintf("Product %s", id),
		Description:  fmt.Sprintf("Description of product %s", id),
		Logo:         fmt.Sprintf("https://example.com/%s.png", id),
		DateRelease:  release.Format(validation.DateLayout),
		DateRevision: validation.ExpectedRevision(dateOnly(release)).Format(validation.DateLayout),
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateTestProduct stores a valid product with the given identifier and name
func (tc *TestContext) CreateTestProduct(id, name, description string) *models.FinancialProduct {
	tc.T.Helper()

	product := ValidProduct(id)
	if name != "" {
		product.Name = name
	}
	if description != "" {
		product.Description = description
	}

	err := tc.Repo.Create(context.Background(), &product)
	require.NoError(tc.T, err, "Failed to create test product")

	return &product
}
