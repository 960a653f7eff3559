package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-console/internal/domains/catalog/application/types"
	"github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-console/internal/shared/faults"
)

func seedProduct(t *testing.T, svc *Service, images ...types.Upload) *domain.Product {
	t.Helper()
	if len(images) == 0 {
		images = []types.Upload{image("primary.png", 1)}
	}
	product, err := svc.CreateProduct(context.Background(), types.CreateProductInput{Draft: validDraft("SKU-1"), Images: images})
	require.NoError(t, err)
	return product
}

func TestAddImages_FourthFitsFifthFails(t *testing.T) {
	svc, repo, _ := newTestService()
	product := seedProduct(t, svc, image("1.png", 1), image("2.png", 1))

	result, err := svc.AddImages(context.Background(), product.ID, []types.Upload{
		image("3.png", 1), image("4.png", 1), image("5.png", 1),
	})
	require.ErrorIs(t, err, domain.ErrTooManyImages)
	require.Len(t, result.Added, 2)
	require.Len(t, result.Product.Images, domain.MaxImages)

	stored, err := repo.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, stored.Images, domain.MaxImages)
	require.Equal(t, "products/1/4.png", stored.Images[3].Path)
}

func TestAddImages_SizeBoundary(t *testing.T) {
	svc, _, objects := newTestService()
	product := seedProduct(t, svc)

	result, err := svc.AddImages(context.Background(), product.ID, []types.Upload{
		image("exact.png", 204800),
		image("over.png", 204801),
		image("never.png", 1),
	})
	require.ErrorIs(t, err, domain.ErrImageTooLarge)
	require.Len(t, result.Added, 1)
	require.Equal(t, "products/1/exact.png", result.Added[0].Path)
	require.NotContains(t, objects.puts, "products/1/over.png")
	require.NotContains(t, objects.puts, "products/1/never.png")
}

func TestAddImages_StorageFailureKeepsEarlierImages(t *testing.T) {
	svc, repo, objects := newTestService()
	product := seedProduct(t, svc)
	objects.failPut["products/1/b.png"] = true

	result, err := svc.AddImages(context.Background(), product.ID, []types.Upload{image("a.png", 1), image("b.png", 1), image("c.png", 1)})
	require.ErrorIs(t, err, faults.ErrStorageFailure)
	require.Len(t, result.Added, 1)

	stored, err := repo.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, stored.Images, 2)
	require.Equal(t, "products/1/a.png", stored.Images[1].Path)
}

func TestAddImages_StopsWhenContextCancelled(t *testing.T) {
	svc, _, objects := newTestService()
	product := seedProduct(t, svc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.AddImages(ctx, product.ID, []types.Upload{image("a.png", 1)})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, result.Added)
	require.Equal(t, []string{"products/1/primary.png"}, objects.puts)
}

func TestReorderImage(t *testing.T) {
	svc, _, _ := newTestService()
	product := seedProduct(t, svc, image("a.png", 1), image("b.png", 1), image("c.png", 1))

	updated, err := svc.ReorderImage(context.Background(), product.ID, 2, 0)
	require.NoError(t, err)
	require.Equal(t, "products/1/c.png", updated.Images[0].Path)
	require.Equal(t, "products/1/a.png", updated.Images[1].Path)

	_, err = svc.ReorderImage(context.Background(), product.ID, 0, 3)
	require.ErrorIs(t, err, domain.ErrIndexOutOfRange)
}

func TestRemoveImage_DeletesStorageBeforeUnlinking(t *testing.T) {
	svc, repo, objects := newTestService()
	product := seedProduct(t, svc, image("a.png", 1), image("b.png", 1))
	ref := product.Images[0].URL

	objects.failDelete = true
	_, err := svc.RemoveImage(context.Background(), product.ID, ref)
	require.ErrorIs(t, err, faults.ErrStorageFailure)
	stored, err := repo.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, stored.Images, 2)

	objects.failDelete = false
	updated, err := svc.RemoveImage(context.Background(), product.ID, ref)
	require.NoError(t, err)
	require.Len(t, updated.Images, 1)
	require.Equal(t, "products/1/b.png", updated.Images[0].Path)
	_, err = objects.Get(context.Background(), "products/1/a.png")
	require.Error(t, err)

	_, err = svc.RemoveImage(context.Background(), product.ID, ref)
	require.ErrorIs(t, err, domain.ErrImageNotFound)
}
