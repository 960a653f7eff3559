package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-console/internal/domains/catalog/application/types"
	"github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-console/internal/shared/tax"
)

// Product is the JSON shape of a catalog product.
type Product struct {
	ID          int64           `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Ingredients []string        `json:"ingredients"`
	Categories  []string        `json:"categories"`
	Description string          `json:"description"`
	Images      []Image         `json:"images"`
}

// Image is one entry of a product's ordered image list.
type Image struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// ProductDraft is the body of a create request.
type ProductDraft struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Ingredients []string        `json:"ingredients"`
	Categories  []string        `json:"categories"`
	Description string          `json:"description"`
}

// ProductPatch is the body of a partial update; absent fields are left untouched.
type ProductPatch struct {
	SKU         *string          `json:"sku"`
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	TaxRate     *decimal.Decimal `json:"taxRate"`
	Ingredients *[]string        `json:"ingredients"`
	Categories  *[]string        `json:"categories"`
	Description *string          `json:"description"`
}

// ImagesResult reports an upload batch, including batches that stopped early.
type ImagesResult struct {
	Product Product `json:"product"`
	Added   []Image `json:"added"`
	Error   string  `json:"error,omitempty"`
}

// FromDomainProduct converts a domain product to its transport representation.
func FromDomainProduct(p *domain.Product) Product {
	if p == nil {
		return Product{}
	}
	return Product{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Price:       p.Price,
		Stock:       p.Stock,
		TaxRate:     p.TaxClass.Rate(),
		Ingredients: nonNil(p.Ingredients),
		Categories:  nonNil(p.Categories),
		Description: p.Description,
		Images:      FromDomainImages(p.Images),
	}
}

func FromDomainProducts(list []*domain.Product) []Product {
	result := make([]Product, 0, len(list))
	for _, p := range list {
		result = append(result, FromDomainProduct(p))
	}
	return result
}

func FromDomainImages(images []domain.ImageRef) []Image {
	result := make([]Image, 0, len(images))
	for _, image := range images {
		result = append(result, Image{Path: image.Path, URL: image.URL})
	}
	return result
}

// ToDraft converts a create body into the application draft.
func ToDraft(body ProductDraft) (types.ProductDraft, error) {
	class, err := tax.FromRate(body.TaxRate)
	if err != nil {
		return types.ProductDraft{}, err
	}
	return types.ProductDraft{
		SKU:         body.SKU,
		Name:        body.Name,
		Price:       body.Price,
		Stock:       body.Stock,
		TaxClass:    class,
		Ingredients: body.Ingredients,
		Categories:  body.Categories,
		Description: body.Description,
	}, nil
}

// ToPatch converts an update body into the application patch.
func ToPatch(body ProductPatch) (types.ProductPatch, error) {
	patch := types.ProductPatch{
		SKU:         body.SKU,
		Name:        body.Name,
		Price:       body.Price,
		Stock:       body.Stock,
		Ingredients: body.Ingredients,
		Categories:  body.Categories,
		Description: body.Description,
	}
	if body.TaxRate != nil {
		class, err := tax.FromRate(*body.TaxRate)
		if err != nil {
			return types.ProductPatch{}, err
		}
		patch.TaxClass = &class
	}
	return patch, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
