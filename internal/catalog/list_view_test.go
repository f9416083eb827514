package catalog_test

import (
	"context"
	"errors"
	"testing"

	"financialproducts/internal/catalog"
	"financialproducts/internal/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedView(t *testing.T, svc *fakeService) *catalog.ListView {
	t.Helper()
	v := catalog.NewListView(svc)
	require.NoError(t, v.Load(context.Background()))
	return v
}

func TestListView_Defaults(t *testing.T) {
	v := catalog.NewListView(&fakeService{})

	assert.Equal(t, catalog.DefaultPageSize, v.PageSize())
	assert.Equal(t, []int{5, 10, 20}, catalog.PageSizeOptions)
	assert.Empty(t, v.SearchTerm())
	assert.False(t, v.Loading())
	assert.Empty(t, v.Error())
	assert.True(t, v.Empty())
}

func TestListView_Load(t *testing.T) {
	v := loadedView(t, &fakeService{products: catalogFixture()})

	assert.Equal(t, 3, v.ResultCount())
	assert.False(t, v.Loading())
	assert.Empty(t, v.Error())
}

func TestListView_LoadFailureKeepsCollection(t *testing.T) {
	svc := &fakeService{products: catalogFixture()}
	v := loadedView(t, svc)

	svc.listErr = &client.APIError{Status: 500, Message: "unexpected error while fetching products"}
	err := v.Load(context.Background())

	require.Error(t, err)
	assert.Equal(t, "failed to load products", v.Error())
	assert.Len(t, v.Products(), 3)
	assert.Equal(t, 3, v.ResultCount())
	assert.False(t, v.Loading())
}

func TestListView_PageSize(t *testing.T) {
	v := loadedView(t, &fakeService{products: catalogFixture()})

	v.SetPageSize(2)
	assert.Equal(t, 2, v.ResultCount())
	assert.Equal(t, []string{"trj-crd", "cta-ahr"}, ids(v.Displayed()))

	v.SetPageSize(0)
	assert.Equal(t, 3, v.ResultCount())

	v.SetPageSize(20)
	assert.Equal(t, 3, v.ResultCount())
}

func TestListView_Search(t *testing.T) {
	v := loadedView(t, &fakeService{products: catalogFixture()})

	v.Search("Celeste")
	assert.Equal(t, 1, v.ResultCount())
	assert.False(t, v.Empty())
	assert.Equal(t, "Celeste", v.SearchTerm())

	v.Search("NoExiste")
	assert.Equal(t, 0, v.ResultCount())
	assert.True(t, v.Empty())

	v.Search("")
	assert.Equal(t, 3, v.ResultCount())
}

func TestListView_SearchThenPage(t *testing.T) {
	v := loadedView(t, &fakeService{products: catalogFixture()})

	v.Search("de")
	v.SetPageSize(2)
	assert.Equal(t, []string{"trj-crd", "cta-ahr"}, ids(v.Displayed()))
}

func TestListView_DeleteSuccess(t *testing.T) {
	svc := &fakeService{products: catalogFixture()}
	v := loadedView(t, svc)
	v.Search("celeste")

	require.NoError(t, v.Delete(context.Background(), "inv-cel"))

	assert.Equal(t, []string{"inv-cel"}, svc.deleted)
	assert.Len(t, v.Products(), 2)
	assert.True(t, v.Empty())
	assert.Equal(t, 1, svc.lists, "delete must not refetch the catalog")
}

func TestListView_DeleteFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"message from service", &client.APIError{Status: 404, Message: "product not found"}, "product not found"},
		{"no message falls back", &client.APIError{Status: 500}, "failed to delete product"},
		{"plain error", errors.New("network down"), "network down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{products: catalogFixture()}
			v := loadedView(t, svc)

			svc.deleteErr = tt.err
			require.Error(t, v.Delete(context.Background(), "trj-crd"))

			assert.Equal(t, tt.wantMsg, v.Error())
			assert.Len(t, v.Products(), 3)
		})
	}
}
