// Package memory provides an in-process product repository
package memory

import (
	"context"
	"sync"
	"time"

	"financialproducts/internal/models"
	"financialproducts/internal/repository"
)

type productRepository struct {
	mu       sync.RWMutex
	products []models.FinancialProduct
}

// NewProductRepository creates an empty in-memory repository, optionally seeded
func NewProductRepository(seed ...models.FinancialProduct) repository.ProductRepository {
	r := &productRepository{products: make([]models.FinancialProduct, 0, len(seed))}
	for _, p := range seed {
		if r.indexOf(p.ID) < 0 {
			r.products = append(r.products, p)
		}
	}
	return r
}

// indexOf must be called with the lock held
func (r *productRepository) indexOf(id string) int {
	for i, p := range r.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *productRepository) Create(_ context.Context, product *models.FinancialProduct) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(product.ID) >= 0 {
		return repository.ErrConflict
	}
	r.products = append(r.products, *product)
	return nil
}

func (r *productRepository) Update(_ context.Context, product *models.FinancialProduct) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(product.ID)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.products[i] = *product
	return nil
}

func (r *productRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return nil
}

func (r *productRepository) GetByID(_ context.Context, id string) (*models.FinancialProduct, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	p := r.products[i]
	return &p, nil
}

func (r *productRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOf(id) >= 0, nil
}

func (r *productRepository) List(_ context.Context) ([]models.FinancialProduct, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.FinancialProduct, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *productRepository) ListDueForRevision(_ context.Context, day time.Time) ([]models.FinancialProduct, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// ISO dates order lexically
	cutoff := day.Format("2006-01-02")
	out := make([]models.FinancialProduct, 0)
	for _, p := range r.products {
		if p.DateRevision != "" && p.DateRevision <= cutoff {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *productRepository) Ping(context.Context) error {
	return nil
}
