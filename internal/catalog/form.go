package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"financialproducts/internal/client"
	"financialproducts/internal/models"
	"financialproducts/internal/validation"

	"go.uber.org/zap"
)

const (
	createdMessage    = "product added successfully"
	updatedMessage    = "product updated successfully"
	loadProductFailed = "failed to load the product"
	notFoundMessage   = "the requested resource was not found"
	unexpectedMessage = "unexpected server error"
)

// ErrInvalidForm is returned when a submission fails validation
var ErrInvalidForm = errors.New("form has invalid fields")

// FormError carries the text shown to the user for a failed submission
type FormError struct {
	Message string
	Err     error
}

func (e *FormError) Error() string { return e.Message }
func (e *FormError) Unwrap() error { return e.Err }

// Submission is the outcome of a create or update
type Submission struct {
	Message     string
	Product     models.FinancialProduct
	FieldErrors validation.FieldErrors
}

// ProductForm drives the create and edit pages
type ProductForm struct {
	service   ProductService
	validator *validation.FormValidator
	log       *zap.Logger
}

// NewProductForm creates a form backed by service, checking identifiers against it
func NewProductForm(service ProductService, now func() time.Time, log *zap.Logger) *ProductForm {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductForm{
		service:   service,
		validator: validation.NewFormValidator(service, now, log),
		log:       log,
	}
}

// SubmitCreate validates and creates a product.
// Invalid forms are reported through Submission.FieldErrors and never reach the service.
func (f *ProductForm) SubmitCreate(ctx context.Context, p models.FinancialProduct) (Submission, error) {
	p = normalize(p)
	if errs := f.validator.ValidateCreate(ctx, p); errs != nil {
		return Submission{Product: p, FieldErrors: errs}, ErrInvalidForm
	}

	res, err := f.service.Create(ctx, p)
	if err != nil {
		f.log.Warn("form.create_failed", zap.String("id", p.ID), zap.Error(err))
		return Submission{Product: p}, &FormError{Message: submitMessage(err), Err: err}
	}
	return Submission{Message: createdMessage, Product: res.Data}, nil
}

// LoadForEdit fetches the product being edited
func (f *ProductForm) LoadForEdit(ctx context.Context, id string) (models.FinancialProduct, error) {
	p, err := f.service.GetByID(ctx, id)
	if err != nil {
		msg := loadProductFailed
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return models.FinancialProduct{}, &FormError{Message: msg, Err: err}
	}
	p.DateRelease = FormatDate(p.DateRelease)
	p.DateRevision = FormatDate(p.DateRevision)
	return p, nil
}

// SubmitUpdate validates and saves an edited product. The identifier cannot change.
func (f *ProductForm) SubmitUpdate(ctx context.Context, id string, p models.FinancialProduct) (Submission, error) {
	p = normalize(p)
	p.ID = id
	if errs := f.validator.ValidateUpdate(p); errs != nil {
		return Submission{Product: p, FieldErrors: errs}, ErrInvalidForm
	}

	res, err := f.service.Update(ctx, id, p)
	if err != nil {
		f.log.Warn("form.update_failed", zap.String("id", id), zap.Error(err))
		return Submission{Product: p}, &FormError{Message: submitMessage(err), Err: err}
	}
	return Submission{Message: updatedMessage, Product: res.Data}, nil
}

// submitMessage maps a service failure to the text shown under the form
func submitMessage(err error) string {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return unexpectedMessage
	}

	switch apiErr.Status {
	case 400:
		msg := apiErr.Message
		if details := apiErr.FieldMessages(); len(details) > 0 {
			msg = fmt.Sprintf("%s: %s", msg, strings.Join(details, " "))
		}
		return msg
	case 404:
		return notFoundMessage
	default:
		return unexpectedMessage
	}
}

func normalize(p models.FinancialProduct) models.FinancialProduct {
	p.DateRelease = FormatDate(p.DateRelease)
	p.DateRevision = FormatDate(p.DateRevision)
	return p
}

var dateLayouts = []string{
	validation.DateLayout,
	"2006-1-2",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// FormatDate rewrites a date as yyyy-MM-dd. Values it cannot read are returned unchanged.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(validation.DateLayout)
		}
	}
	return s
}
