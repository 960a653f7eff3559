package catalog

import (
	"context"
	"errors"

	catalogdomain "github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront-console/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-console/internal/domains/orders/domain"
	"github.com/Apurer/storefront-console/internal/domains/orders/ports"
)

var _ ports.ProductCatalog = (*Reader)(nil)

// ProductGetter is the part of the catalog the order context reads.
type ProductGetter interface {
	GetProduct(ctx context.Context, id int64) (*catalogdomain.Product, error)
}

// Reader adapts the catalog service into order line-item snapshots.
type Reader struct {
	products ProductGetter
}

func NewReader(products ProductGetter) *Reader {
	return &Reader{products: products}
}

func (r *Reader) Snapshot(ctx context.Context, productID int64) (domain.ProductSnapshot, error) {
	product, err := r.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return domain.ProductSnapshot{}, ports.ErrUnknownProduct
		}
		return domain.ProductSnapshot{}, err
	}
	return domain.ProductSnapshot{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		TaxClass: product.TaxClass,
	}, nil
}
