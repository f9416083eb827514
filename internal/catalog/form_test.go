package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"financialproducts/internal/catalog"
	"financialproducts/internal/client"
	"financialproducts/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func formNow() time.Time {
	return time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)
}

func newForm(svc *fakeService) *catalog.ProductForm {
	return catalog.NewProductForm(svc, formNow, zap.NewNop())
}

func TestProductForm_SubmitCreate(t *testing.T) {
	svc := &fakeService{}
	form := newForm(svc)

	p := product("new-prd", "Nuevo Producto", "Descripcion del producto nuevo")
	p.DateRelease = "2025-7-1"
	p.DateRevision = "2026-07-01T00:00:00Z"

	sub, err := form.SubmitCreate(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "product added successfully", sub.Message)
	require.Len(t, svc.created, 1)
	assert.Equal(t, "2025-07-01", svc.created[0].DateRelease)
	assert.Equal(t, "2026-07-01", svc.created[0].DateRevision)
}

func TestProductForm_SubmitCreateInvalidSkipsService(t *testing.T) {
	svc := &fakeService{}
	form := newForm(svc)

	p := product("x", "abc", "short")
	sub, err := form.SubmitCreate(context.Background(), p)

	assert.ErrorIs(t, err, catalog.ErrInvalidForm)
	assert.Equal(t, validation.RuleMin, sub.FieldErrors["id"])
	assert.Equal(t, validation.RuleMin, sub.FieldErrors["name"])
	assert.Equal(t, validation.RuleMin, sub.FieldErrors["description"])
	assert.Empty(t, svc.created)
}

func TestProductForm_SubmitCreateDuplicateID(t *testing.T) {
	svc := &fakeService{products: catalogFixture()}
	form := newForm(svc)

	sub, err := form.SubmitCreate(context.Background(), product("trj-crd", "Otra Tarjeta", "Otra tarjeta de credito"))

	assert.ErrorIs(t, err, catalog.ErrInvalidForm)
	assert.Equal(t, validation.FieldErrors{"id": validation.RuleIDExists}, sub.FieldErrors)
	assert.Empty(t, svc.created)
}

func TestProductForm_SubmitCreateVerifierDownStillSubmits(t *testing.T) {
	svc := &fakeService{verifyErr: errors.New("timeout")}
	form := newForm(svc)

	_, err := form.SubmitCreate(context.Background(), product("new-prd", "Nuevo Producto", "Descripcion del producto"))
	require.NoError(t, err)
	assert.Len(t, svc.created, 1)
}

func TestProductForm_SubmitErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name: "bad request with details",
			err: &client.APIError{
				Status:  400,
				Message: "Invalid body",
				Errors:  map[string]string{"name": "name too short.", "id": "id taken."},
			},
			wantMsg: "Invalid body: id taken. name too short.",
		},
		{
			name:    "bad request without details",
			err:     &client.APIError{Status: 400, Message: "Duplicate identifier found in the database"},
			wantMsg: "Duplicate identifier found in the database",
		},
		{
			name:    "not found",
			err:     &client.APIError{Status: 404, Message: "whatever"},
			wantMsg: "the requested resource was not found",
		},
		{
			name:    "server error",
			err:     &client.APIError{Status: 503, Message: "whatever"},
			wantMsg: "unexpected server error",
		},
		{
			name:    "transport error",
			err:     &client.APIError{Message: "unexpected server error", Err: errors.New("dial tcp")},
			wantMsg: "unexpected server error",
		},
		{
			name:    "unknown error type",
			err:     errors.New("boom"),
			wantMsg: "unexpected server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{createErr: tt.err, updateErr: tt.err}
			form := newForm(svc)
			p := product("new-prd", "Nuevo Producto", "Descripcion del producto")

			_, err := form.SubmitCreate(context.Background(), p)
			var formErr *catalog.FormError
			require.True(t, errors.As(err, &formErr))
			assert.Equal(t, tt.wantMsg, formErr.Message)
			assert.ErrorIs(t, err, tt.err)

			_, err = form.SubmitUpdate(context.Background(), p.ID, p)
			require.True(t, errors.As(err, &formErr))
			assert.Equal(t, tt.wantMsg, formErr.Message)
		})
	}
}

func TestProductForm_LoadForEdit(t *testing.T) {
	svc := &fakeService{products: catalogFixture()}
	svc.products[0].DateRelease = "2025-07-01T00:00:00Z"
	form := newForm(svc)

	p, err := form.LoadForEdit(context.Background(), "trj-crd")
	require.NoError(t, err)
	assert.Equal(t, "Tarjeta Credito", p.Name)
	assert.Equal(t, "2025-07-01", p.DateRelease)

	_, err = form.LoadForEdit(context.Background(), "missing")
	var formErr *catalog.FormError
	require.True(t, errors.As(err, &formErr))
	assert.Equal(t, "product not found", formErr.Message)

	svc.getErr = errors.New("boom")
	_, err = form.LoadForEdit(context.Background(), "trj-crd")
	require.True(t, errors.As(err, &formErr))
	assert.Equal(t, "failed to load the product", formErr.Message)
}

func TestProductForm_SubmitUpdate(t *testing.T) {
	svc := &fakeService{products: catalogFixture()}
	form := newForm(svc)

	p := catalogFixture()[0]
	p.Name = "Tarjeta Platinum"
	p.ID = "ignored"

	sub, err := form.SubmitUpdate(context.Background(), "trj-crd", p)
	require.NoError(t, err)
	assert.Equal(t, "product updated successfully", sub.Message)
	require.Len(t, svc.updated, 1)
	assert.Equal(t, "trj-crd", svc.updated[0].ID)
	assert.Equal(t, "Tarjeta Platinum", svc.updated[0].Name)
}

func TestProductForm_SubmitUpdateInvalid(t *testing.T) {
	svc := &fakeService{products: catalogFixture()}
	form := newForm(svc)

	p := catalogFixture()[0]
	p.DateRevision = "2027-07-01"

	sub, err := form.SubmitUpdate(context.Background(), "trj-crd", p)
	assert.ErrorIs(t, err, catalog.ErrInvalidForm)
	assert.Equal(t, validation.FieldErrors{"date_revision": validation.RuleRevisionDate}, sub.FieldErrors)
	assert.Empty(t, svc.updated)
}

func TestFormatDate(t *testing.T) {
	tests := map[string]string{
		"2025-07-01":           "2025-07-01",
		"2025-7-1":             "2025-07-01",
		"2025-07-01T10:00:00Z": "2025-07-01",
		"2025-07-01T10:00:00":  "2025-07-01",
		" 2025-12-31 ":         "2025-12-31",
		"not a date":           "not a date",
		"":                     "",
	}

	for in, want := range tests {
		assert.Equal(t, want, catalog.FormatDate(in), in)
	}
}
