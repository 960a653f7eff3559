package types

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-console/internal/shared/tax"
)

// ProductDraft carries the operator-entered fields of a new product.
type ProductDraft struct {
	SKU         string
	Name        string
	Price       decimal.Decimal
	Stock       int
	TaxClass    tax.Class
	Ingredients []string
	Categories  []string
	Description string
}

// CreateProductInput pairs a draft with the images chosen for it.
type CreateProductInput struct {
	Draft  ProductDraft
	Images []Upload
	// IdempotencyKey lets a retried submission resolve to the same creation run.
	IdempotencyKey string
}

// PersistProductInput is the final step of creation, once images are stored.
type PersistProductInput struct {
	ID     int64
	Draft  ProductDraft
	Images []domain.ImageRef
}

// ProductPatch applies only the non-nil fields.
type ProductPatch struct {
	SKU         *string
	Name        *string
	Price       *decimal.Decimal
	Stock       *int
	TaxClass    *tax.Class
	Ingredients *[]string
	Categories  *[]string
	Description *string
}

// Empty reports whether the patch carries no changes.
func (p ProductPatch) Empty() bool {
	return p.SKU == nil && p.Name == nil && p.Price == nil && p.Stock == nil &&
		p.TaxClass == nil && p.Ingredients == nil && p.Categories == nil && p.Description == nil
}
