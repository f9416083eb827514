package models

// FinancialProduct represents a product in the catalog
type FinancialProduct struct {
	ID           string `json:"id" db:"id" binding:"required,min=3,max=10" example:"trj-crd"`
	Name         string `json:"name" db:"name" binding:"required,nospaces,min=5,max=100" example:"Tarjeta de Credito"`
	Description  string `json:"description" db:"description" binding:"required,nospaces,min=10,max=200" example:"Tarjeta de consumo bajo la modalidad de credito"`
	Logo         string `json:"logo" db:"logo" binding:"required,nospaces" example:"https://example.com/visa.png"`
	DateRelease  string `json:"date_release" db:"date_release" binding:"required,datetime=2006-01-02,release_date" example:"2025-01-01"`
	DateRevision string `json:"date_revision" db:"date_revision" binding:"required,datetime=2006-01-02,revision_date" example:"2026-01-01"`
}

// UpdateProductRequest represents the request to update a product.
// The identifier comes from the path and cannot be changed.
type UpdateProductRequest struct {
	Name         string `json:"name" binding:"required,nospaces,min=5,max=100" example:"Tarjeta de Credito"`
	Description  string `json:"description" binding:"required,nospaces,min=10,max=200" example:"Tarjeta de consumo bajo la modalidad de credito"`
	Logo         string `json:"logo" binding:"required,nospaces" example:"https://example.com/visa.png"`
	DateRelease  string `json:"date_release" binding:"required,datetime=2006-01-02,release_date" example:"2025-01-01"`
	DateRevision string `json:"date_revision" binding:"required,datetime=2006-01-02,revision_date" example:"2026-01-01"`
}

// ToProduct builds the full product for the given identifier
func (r UpdateProductRequest) ToProduct(id string) FinancialProduct {
	return FinancialProduct{
		ID:           id,
		Name:         r.Name,
		Description:  r.Description,
		Logo:         r.Logo,
		DateRelease:  r.DateRelease,
		DateRevision: r.DateRevision,
	}
}

// UpdateRequest returns the mutable part of the product
func (p FinancialProduct) UpdateRequest() UpdateProductRequest {
	return UpdateProductRequest{
		Name:         p.Name,
		Description:  p.Description,
		Logo:         p.Logo,
		DateRelease:  p.DateRelease,
		DateRevision: p.DateRevision,
	}
}
