package catalog

import (
	"context"

	"financialproducts/internal/client"
	"financialproducts/internal/models"
)

// ProductService is the remote catalog used by the view model and the forms.
// *client.ProductClient satisfies it.
type ProductService interface {
	List(ctx context.Context) ([]models.FinancialProduct, error)
	GetByID(ctx context.Context, id string) (models.FinancialProduct, error)
	Create(ctx context.Context, p models.FinancialProduct) (client.MutationResult, error)
	Update(ctx context.Context, id string, p models.FinancialProduct) (client.MutationResult, error)
	Delete(ctx context.Context, id string) (client.MutationResult, error)
	VerifyID(ctx context.Context, id string) (bool, error)
}

var _ ProductService = (*client.ProductClient)(nil)
