package application

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-console/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/storefront-console/internal/domains/catalog/application/types"
	"github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-console/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-console/internal/shared/faults"
	"github.com/Apurer/storefront-console/internal/shared/tax"
)

// flakyObjectStore wraps the memory store and fails on selected paths.
type flakyObjectStore struct {
	*memory.ObjectStore
	failPut    map[string]bool
	failDelete bool
	puts       []string
}

func newFlakyObjectStore() *flakyObjectStore {
	return &flakyObjectStore{ObjectStore: memory.NewObjectStore("http://console.test"), failPut: map[string]bool{}}
}

func (f *flakyObjectStore) Put(ctx context.Context, path, contentType string, data []byte) (string, error) {
	if f.failPut[path] {
		return "", errors.New("bucket unavailable")
	}
	f.puts = append(f.puts, path)
	return f.ObjectStore.Put(ctx, path, contentType, data)
}

func (f *flakyObjectStore) Delete(ctx context.Context, path string) error {
	if f.failDelete {
		return errors.New("bucket unavailable")
	}
	return f.ObjectStore.Delete(ctx, path)
}

func image(name string, size int) types.Upload {
	return types.Upload{Filename: name, ContentType: "image/png", Data: bytes.Repeat([]byte{0x1}, size)}
}

func validDraft(sku string) types.ProductDraft {
	return types.ProductDraft{
		SKU:         sku,
		Name:        "Lavender soap",
		Price:       decimal.RequireFromString("100.00"),
		Stock:       10,
		TaxClass:    tax.Standard,
		Ingredients: []string{"olive oil", "lavender"},
		Categories:  []string{"soap"},
		Description: "<p>Calming</p>",
	}
}

func newTestService() (*Service, *memory.Repository, *flakyObjectStore) {
	repo := memory.NewRepository()
	objects := newFlakyObjectStore()
	return NewService(repo, objects), repo, objects
}

func TestCreateProduct_UploadsInOrderThenPersists(t *testing.T) {
	svc, _, objects := newTestService()

	product, err := svc.CreateProduct(context.Background(), types.CreateProductInput{
		Draft:  validDraft("SKU-1"),
		Images: []types.Upload{image("front.png", 10), image("back.png", 10)},
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), product.ID)
	require.Equal(t, []string{"products/1/front.png", "products/1/back.png"}, objects.puts)
	require.Equal(t, "http://console.test/assets/products/1/front.png", product.Images[0].URL)
	require.Equal(t, "products/1/back.png", product.Images[1].Path)
}

func TestCreateProduct_DuplicateSKULeavesCatalogUnchanged(t *testing.T) {
	svc, repo, objects := newTestService()
	ctx := context.Background()
	_, err := svc.CreateProduct(ctx, types.CreateProductInput{Draft: validDraft("SKU-1"), Images: []types.Upload{image("a.png", 1)}})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, types.CreateProductInput{Draft: validDraft("SKU-1"), Images: []types.Upload{image("b.png", 1)}})
	require.ErrorIs(t, err, ports.ErrDuplicateSKU)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, objects.Len())
}

func TestCreateProduct_RejectsIncompleteDrafts(t *testing.T) {
	svc, _, objects := newTestService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, types.CreateProductInput{Draft: validDraft("SKU-1")})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyImages)

	draft := validDraft("SKU-2")
	draft.Ingredients = nil
	_, err = svc.CreateProduct(ctx, types.CreateProductInput{Draft: draft, Images: []types.Upload{image("a.png", 1)}})
	require.ErrorIs(t, err, domain.ErrEmptyIngredients)

	draft = validDraft("SKU-3")
	draft.Price = decimal.Zero
	_, err = svc.CreateProduct(ctx, types.CreateProductInput{Draft: draft, Images: []types.Upload{image("a.png", 1)}})
	require.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.CreateProduct(ctx, types.CreateProductInput{Draft: validDraft("SKU-4"), Images: []types.Upload{image("big.png", domain.MaxImageBytes+1)}})
	require.ErrorIs(t, err, domain.ErrImageTooLarge)

	require.Empty(t, objects.puts)
}

func TestUpdateProduct(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	first, err := svc.CreateProduct(ctx, types.CreateProductInput{Draft: validDraft("SKU-1"), Images: []types.Upload{image("a.png", 1)}})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, types.CreateProductInput{Draft: validDraft("SKU-2"), Images: []types.Upload{image("a.png", 1)}})
	require.NoError(t, err)

	taken := "SKU-2"
	_, err = svc.UpdateProduct(ctx, first.ID, types.ProductPatch{SKU: &taken})
	require.ErrorIs(t, err, ports.ErrDuplicateSKU)

	zero := decimal.Zero
	_, err = svc.UpdateProduct(ctx, first.ID, types.ProductPatch{Price: &zero})
	require.ErrorIs(t, err, ErrInvalidInput)

	subCent := decimal.RequireFromString("149.995")
	_, err = svc.UpdateProduct(ctx, first.ID, types.ProductPatch{Price: &subCent})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrPricePrecision)

	price := decimal.RequireFromString("150.00")
	stock := 0
	updated, err := svc.UpdateProduct(ctx, first.ID, types.ProductPatch{Price: &price, Stock: &stock})
	require.NoError(t, err)
	require.True(t, updated.Price.Equal(price))
	require.Zero(t, updated.Stock)
	require.Equal(t, "SKU-1", updated.SKU)

	_, err = svc.UpdateProduct(ctx, 99, types.ProductPatch{Price: &price})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestCategoriesAndIngredients(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	product, err := svc.CreateProduct(ctx, types.CreateProductInput{Draft: validDraft("SKU-1"), Images: []types.Upload{image("a.png", 1)}})
	require.NoError(t, err)

	_, err = svc.AddCategory(ctx, product.ID, "soap")
	require.ErrorIs(t, err, domain.ErrDuplicateCategory)

	updated, err := svc.AddCategory(ctx, product.ID, "gifts")
	require.NoError(t, err)
	require.Equal(t, []string{"soap", "gifts"}, updated.Categories)

	for i := 0; i < 2; i++ {
		updated, err = svc.RemoveCategory(ctx, product.ID, "gifts")
		require.NoError(t, err)
		require.Equal(t, []string{"soap"}, updated.Categories)
	}

	updated, err = svc.AddIngredient(ctx, product.ID, "shea butter")
	require.NoError(t, err)
	require.Equal(t, []string{"olive oil", "lavender", "shea butter"}, updated.Ingredients)

	updated, err = svc.RemoveIngredient(ctx, product.ID, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"lavender", "shea butter"}, updated.Ingredients)
}

func TestDeleteProduct_RemovesStoredImages(t *testing.T) {
	svc, repo, objects := newTestService()
	ctx := context.Background()
	product, err := svc.CreateProduct(ctx, types.CreateProductInput{Draft: validDraft("SKU-1"), Images: []types.Upload{image("a.png", 1)}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, product.ID))
	_, err = repo.GetByID(ctx, product.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.Zero(t, objects.Len())

	require.ErrorIs(t, svc.DeleteProduct(ctx, product.ID), ports.ErrNotFound)
}

func TestDeleteProduct_StorageFailureKeepsProduct(t *testing.T) {
	svc, repo, objects := newTestService()
	ctx := context.Background()
	product, err := svc.CreateProduct(ctx, types.CreateProductInput{Draft: validDraft("SKU-1"), Images: []types.Upload{image("a.png", 1)}})
	require.NoError(t, err)

	objects.failDelete = true
	require.ErrorIs(t, svc.DeleteProduct(ctx, product.ID), faults.ErrStorageFailure)
	_, err = repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
}
