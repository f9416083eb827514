package models

// ErrorResponse represents an error response.
// Validation failures carry a per-field map in Errors.
type ErrorResponse struct {
	Name    string            `json:"name,omitempty" example:"BadRequestError"`
	Message string            `json:"message" example:"Invalid body, check 'errors' property for more info."`
	Errors  map[string]string `json:"errors,omitempty"`
}

// SuccessResponse represents a success response without payload
type SuccessResponse struct {
	Message string `json:"message" example:"Product removed successfully"`
}

// ProductListResponse wraps the product collection
type ProductListResponse struct {
	Data []FinancialProduct `json:"data"`
}

// ProductResponse wraps a single product
type ProductResponse struct {
	Data FinancialProduct `json:"data"`
}

// MutationResponse is returned by create and update
type MutationResponse struct {
	Message string           `json:"message" example:"Product added successfully"`
	Data    FinancialProduct `json:"data"`
}

// ReviewResponse lists the products due for revision
type ReviewResponse struct {
	Count int                `json:"count" example:"1"`
	Data  []FinancialProduct `json:"data"`
}
