package types

import "github.com/Apurer/storefront-console/internal/domains/catalog/domain"

// Upload is one file selected for a product.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the payload length in bytes.
func (u Upload) Size() int {
	return len(u.Data)
}

// AddImagesResult reports the product state after an upload batch, including partial batches.
type AddImagesResult struct {
	Product *domain.Product
	Added   []domain.ImageRef
}
