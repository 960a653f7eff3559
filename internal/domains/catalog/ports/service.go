package ports

import (
	"context"

	"github.com/Apurer/storefront-console/internal/domains/catalog/application/types"
	"github.com/Apurer/storefront-console/internal/domains/catalog/domain"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	// CreateProduct validates, uploads images sequentially and persists in one call.
	CreateProduct(ctx context.Context, input types.CreateProductInput) (*domain.Product, error)
	// ReserveProduct validates a draft and reserves its identifier.
	ReserveProduct(ctx context.Context, input types.CreateProductInput) (int64, error)
	// UploadProductImage stores one image for a reserved or existing product.
	UploadProductImage(ctx context.Context, productID int64, upload types.Upload) (domain.ImageRef, error)
	// PersistProduct stores a reserved product with its uploaded images.
	PersistProduct(ctx context.Context, input types.PersistProductInput) (*domain.Product, error)

	UpdateProduct(ctx context.Context, id int64, patch types.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)

	AddCategory(ctx context.Context, id int64, category string) (*domain.Product, error)
	RemoveCategory(ctx context.Context, id int64, category string) (*domain.Product, error)
	AddIngredient(ctx context.Context, id int64, ingredient string) (*domain.Product, error)
	RemoveIngredient(ctx context.Context, id int64, index int) (*domain.Product, error)

	// AddImages uploads files in order; on failure the result still lists what was linked.
	AddImages(ctx context.Context, id int64, uploads []types.Upload) (*types.AddImagesResult, error)
	ReorderImage(ctx context.Context, id int64, from, to int) (*domain.Product, error)
	RemoveImage(ctx context.Context, id int64, ref string) (*domain.Product, error)

	// Asset serves a stored object by path.
	Asset(ctx context.Context, path string) (*Object, error)
}
