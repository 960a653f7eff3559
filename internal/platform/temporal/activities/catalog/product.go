package catalog

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	catalogtypes "github.com/Apurer/storefront-console/internal/domains/catalog/application/types"
	catalogdomain "github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront-console/internal/domains/catalog/ports"
)

const (
	// ReserveProductActivityName validates a draft and reserves its identifier.
	ReserveProductActivityName = "catalog.activities.ReserveProduct"
	// UploadProductImageActivityName stores a single product image.
	UploadProductImageActivityName = "catalog.activities.UploadProductImage"
	// PersistProductActivityName stores the product once every image is uploaded.
	PersistProductActivityName = "catalog.activities.PersistProduct"
)

// UploadImageInput is the payload of one upload step.
type UploadImageInput struct {
	ProductID int64
	Position  int
	Upload    catalogtypes.Upload
}

// Activities groups activities that operate on the catalog bounded context.
type Activities struct {
	service catalogports.Service
}

// NewActivities wires the catalog service into the Temporal activities bundle.
func NewActivities(service catalogports.Service) *Activities {
	return &Activities{service: service}
}

func (a *Activities) ReserveProduct(ctx context.Context, input catalogtypes.CreateProductInput) (int64, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("catalog activities not initialized")
		return 0, errors.New("catalog activities not initialized")
	}
	logger.Info("ReserveProduct activity started", "sku", input.Draft.SKU)
	id, err := a.service.ReserveProduct(ctx, input)
	if err != nil {
		logger.Error("ReserveProduct activity failed", "sku", input.Draft.SKU, "error", err)
		return 0, toApplicationError(err)
	}
	logger.Info("ReserveProduct activity completed", "productId", id)
	return id, nil
}

func (a *Activities) UploadProductImage(ctx context.Context, input UploadImageInput) (catalogdomain.ImageRef, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("catalog activities not initialized", "productId", input.ProductID)
		return catalogdomain.ImageRef{}, errors.New("catalog activities not initialized")
	}
	logger.Info("UploadProductImage activity started", "productId", input.ProductID, "position", input.Position, "filename", input.Upload.Filename)
	ref, err := a.service.UploadProductImage(ctx, input.ProductID, input.Upload)
	if err != nil {
		logger.Error("UploadProductImage activity failed", "productId", input.ProductID, "position", input.Position, "error", err)
		return catalogdomain.ImageRef{}, toApplicationError(err)
	}
	logger.Info("UploadProductImage activity completed", "productId", input.ProductID, "path", ref.Path)
	return ref, nil
}

func (a *Activities) PersistProduct(ctx context.Context, input catalogtypes.PersistProductInput) (*catalogdomain.Product, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("catalog activities not initialized", "productId", input.ID)
		return nil, errors.New("catalog activities not initialized")
	}
	logger.Info("PersistProduct activity started", "productId", input.ID)
	product, err := a.service.PersistProduct(ctx, input)
	if err != nil {
		logger.Error("PersistProduct activity failed", "productId", input.ID, "error", err)
		return nil, toApplicationError(err)
	}
	logger.Info("PersistProduct activity completed", "productId", product.ID)
	return product, nil
}
