package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-console/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-console/internal/domains/orders/domain"
)

var (
	ErrUnknownProduct  = errors.New("ordered product does not exist")
	ErrUnknownCustomer = errors.New("order customer does not exist")
)

// ProductCatalog resolves the current catalog data for a product.
type ProductCatalog interface {
	// Snapshot returns ErrUnknownProduct when the product is absent.
	Snapshot(ctx context.Context, productID int64) (domain.ProductSnapshot, error)
}

// CustomerDirectory resolves customer summaries by reference. Unknown refs are omitted from the result.
type CustomerDirectory interface {
	Lookup(ctx context.Context, refs []string) (map[string]types.CustomerSummary, error)
}
