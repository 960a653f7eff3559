package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-console/internal/domains/catalog/domain"
)

var (
	ErrNotFound     = errors.New("product not found")
	ErrDuplicateSKU = errors.New("product sku already in use")
)

// Repository persists catalog products.
type Repository interface {
	// NextID reserves an identifier before the product is stored, so image paths can be derived.
	NextID(ctx context.Context) (int64, error)
	// Save inserts or replaces a product; ErrDuplicateSKU when another product owns the sku.
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	// List returns every product ordered by ID.
	List(ctx context.Context) ([]*domain.Product, error)
}
