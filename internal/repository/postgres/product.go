package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"financialproducts/internal/models"
	"financialproducts/internal/repository"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const productColumns = `id, name, description, logo,
		to_char(date_release, 'YYYY-MM-DD'),
		to_char(date_revision, 'YYYY-MM-DD')`

type productRepository struct {
	repository.BaseRepository
}

// NewProductRepository creates a new PostgreSQL product repository
func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *productRepository) Create(ctx context.Context, product *models.FinancialProduct) error {
	query := `
		INSERT INTO products (id, name, description, logo, date_release, date_revision)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.DB().ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Logo,
		product.DateRelease,
		product.DateRevision,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *models.FinancialProduct) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, logo = $3, date_release = $4, date_revision = $5, updated_at = $6
		WHERE id = $7`

	result, err := r.DB().ExecContext(ctx, query,
		product.Name,
		product.Description,
		product.Logo,
		product.DateRelease,
		product.DateRevision,
		time.Now(),
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*models.FinancialProduct, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE id = $1`

	product := &models.FinancialProduct{}
	err := r.DB().QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Logo,
		&product.DateRelease,
		&product.DateRevision,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (r *productRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.DB().QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)",
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check product: %w", err)
	}
	return exists, nil
}

func (r *productRepository) List(ctx context.Context) ([]models.FinancialProduct, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at ASC, id ASC`

	return r.query(ctx, query)
}

func (r *productRepository) ListDueForRevision(ctx context.Context, day time.Time) ([]models.FinancialProduct, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE date_revision <= $1::date
		ORDER BY date_revision ASC, id ASC`

	return r.query(ctx, query, day.Format("2006-01-02"))
}

func (r *productRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.FinancialProduct, error) {
	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]models.FinancialProduct, 0)
	for rows.Next() {
		var p models.FinancialProduct
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Logo,
			&p.DateRelease,
			&p.DateRevision,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
