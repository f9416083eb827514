// Package catalog holds the list view model and the product form workflows
package catalog

import (
	"strings"

	"financialproducts/internal/models"
)

// Filter keeps products whose name or description contains term, ignoring case.
// The input slice is never modified.
func Filter(products []models.FinancialProduct, term string) []models.FinancialProduct {
	needle := strings.ToLower(strings.TrimSpace(term))

	out := make([]models.FinancialProduct, 0, len(products))
	for _, p := range products {
		if needle == "" || matches(p, needle) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p models.FinancialProduct, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}

// Paginate returns the first pageSize products. A non-positive size returns all of them.
func Paginate(products []models.FinancialProduct, pageSize int) []models.FinancialProduct {
	n := len(products)
	if pageSize > 0 && pageSize < n {
		n = pageSize
	}
	out := make([]models.FinancialProduct, n)
	copy(out, products[:n])
	return out
}

// Display is the visible slice for a search term and page size
func Display(products []models.FinancialProduct, term string, pageSize int) []models.FinancialProduct {
	return Paginate(Filter(products, term), pageSize)
}
