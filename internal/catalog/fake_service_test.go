package catalog_test

import (
	"context"

	"financialproducts/internal/client"
	"financialproducts/internal/models"
)

// fakeService is an in-memory ProductService with injectable failures
type fakeService struct {
	products  []models.FinancialProduct
	listErr   error
	getErr    error
	createErr error
	updateErr error
	deleteErr error
	verifyErr error

	created []models.FinancialProduct
	updated []models.FinancialProduct
	deleted []string
	lists   int
}

func (f *fakeService) List(context.Context) ([]models.FinancialProduct, error) {
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.FinancialProduct, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeService) GetByID(_ context.Context, id string) (models.FinancialProduct, error) {
	if f.getErr != nil {
		return models.FinancialProduct{}, f.getErr
	}
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.FinancialProduct{}, &client.APIError{Status: 404, Message: "product not found"}
}

func (f *fakeService) Create(_ context.Context, p models.FinancialProduct) (client.MutationResult, error) {
	if f.createErr != nil {
		return client.MutationResult{}, f.createErr
	}
	f.created = append(f.created, p)
	f.products = append(f.products, p)
	return client.MutationResult{Message: "Product added successfully", Data: p}, nil
}

func (f *fakeService) Update(_ context.Context, id string, p models.FinancialProduct) (client.MutationResult, error) {
	if f.updateErr != nil {
		return client.MutationResult{}, f.updateErr
	}
	p.ID = id
	f.updated = append(f.updated, p)
	return client.MutationResult{Message: "Product updated successfully", Data: p}, nil
}

func (f *fakeService) Delete(_ context.Context, id string) (client.MutationResult, error) {
	if f.deleteErr != nil {
		return client.MutationResult{}, f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return client.MutationResult{Message: "Product removed successfully"}, nil
}

func (f *fakeService) VerifyID(_ context.Context, id string) (bool, error) {
	if f.verifyErr != nil {
		return false, f.verifyErr
	}
	for _, p := range f.products {
		if p.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func product(id, name, description string) models.FinancialProduct {
	return models.FinancialProduct{
		ID:           id,
		Name:         name,
		Description:  description,
		Logo:         "https://example.com/" + id + ".png",
		DateRelease:  "2025-07-01",
		DateRevision: "2026-07-01",
	}
}

func catalogFixture() []models.FinancialProduct {
	return []models.FinancialProduct{
		product("trj-crd", "Tarjeta Credito", "Tarjeta de consumo bajo la modalidad de credito"),
		product("cta-ahr", "Cuenta Ahorros", "Cuenta de ahorro con rendimiento mensual"),
		product("inv-cel", "Inversion Celeste", "Fondo de inversion de riesgo moderado"),
	}
}
