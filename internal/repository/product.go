package repository

import (
	"context"
	"time"

	"financialproducts/internal/models"
)

// ProductRepository defines the storage operations for financial products
type ProductRepository interface {
	// Create stores a new product. A taken identifier yields ErrConflict.
	Create(ctx context.Context, product *models.FinancialProduct) error
	// Update replaces every field but the identifier. A missing product yields ErrNotFound.
	Update(ctx context.Context, product *models.FinancialProduct) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.FinancialProduct, error)
	Exists(ctx context.Context, id string) (bool, error)
	// List returns all products in insertion order
	List(ctx context.Context) ([]models.FinancialProduct, error)
	// ListDueForRevision returns products whose revision date is on or before day
	ListDueForRevision(ctx context.Context, day time.Time) ([]models.FinancialProduct, error)
	Ping(ctx context.Context) error
}
