package catalog

import (
	"context"
	"errors"

	"financialproducts/internal/client"
	"financialproducts/internal/models"
)

const (
	// DefaultPageSize is the initial number of visible rows
	DefaultPageSize = 5

	loadFailedMessage   = "failed to load products"
	deleteFailedMessage = "failed to delete product"
)

// PageSizeOptions are the page sizes offered to the user
var PageSizeOptions = []int{5, 10, 20}

// ListView keeps the fetched catalog and the slice currently shown.
// It belongs to a single view and is not safe for concurrent use.
type ListView struct {
	service    ProductService
	products   []models.FinancialProduct
	displayed  []models.FinancialProduct
	searchTerm string
	pageSize   int
	loading    bool
	err        string
}

// NewListView creates an empty view
func NewListView(service ProductService) *ListView {
	return &ListView{
		service:   service,
		pageSize:  DefaultPageSize,
		displayed: []models.FinancialProduct{},
	}
}

// Load fetches the whole catalog and replaces the current collection.
// On failure the previous collection is kept.
func (v *ListView) Load(ctx context.Context) error {
	v.loading = true
	defer func() { v.loading = false }()

	products, err := v.service.List(ctx)
	if err != nil {
		v.err = loadFailedMessage
		return err
	}

	v.products = products
	v.err = ""
	v.recompute()
	return nil
}

// Search sets the filter term and recomputes the visible rows
func (v *ListView) Search(term string) {
	v.searchTerm = term
	v.recompute()
}

// SetPageSize sets the number of visible rows and recomputes
func (v *ListView) SetPageSize(n int) {
	v.pageSize = n
	v.recompute()
}

// Delete removes a product remotely and, on success, from the local collection
func (v *ListView) Delete(ctx context.Context, id string) error {
	if _, err := v.service.Delete(ctx, id); err != nil {
		v.err = deleteMessage(err)
		return err
	}

	kept := make([]models.FinancialProduct, 0, len(v.products))
	for _, p := range v.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	v.products = kept
	v.err = ""
	v.recompute()
	return nil
}

func deleteMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return deleteFailedMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return deleteFailedMessage
}

func (v *ListView) recompute() {
	v.displayed = Display(v.products, v.searchTerm, v.pageSize)
}

// Displayed returns the visible rows
func (v *ListView) Displayed() []models.FinancialProduct {
	return v.displayed
}

// Products returns the whole loaded collection
func (v *ListView) Products() []models.FinancialProduct {
	return v.products
}

// Empty reports the "no results" state
func (v *ListView) Empty() bool {
	return len(v.displayed) == 0
}

// ResultCount is the number of visible rows
func (v *ListView) ResultCount() int {
	return len(v.displayed)
}

func (v *ListView) Loading() bool      { return v.loading }
func (v *ListView) Error() string      { return v.err }
func (v *ListView) SearchTerm() string { return v.searchTerm }
func (v *ListView) PageSize() int      { return v.pageSize }
