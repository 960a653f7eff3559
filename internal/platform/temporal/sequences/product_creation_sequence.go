package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	catalogtypes "github.com/Apurer/storefront-console/internal/domains/catalog/application/types"
	catalogdomain "github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	catalogactivities "github.com/Apurer/storefront-console/internal/platform/temporal/activities/catalog"
)

// RunProductCreationSequence reserves the product, uploads its images one at a time in
// submission order and persists the result.
func RunProductCreationSequence(ctx workflow.Context, input catalogtypes.CreateProductInput) (*catalogdomain.Product, error) {
	logger := workflow.GetLogger(ctx)
	sku := input.Draft.SKU
	logger.Info("product creation sequence started", "sku", sku, "images", len(input.Images))
	reserveOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}
	uploadOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	persistOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var productID int64
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, reserveOptions), catalogactivities.ReserveProductActivityName, input).Get(ctx, &productID)
	if err != nil {
		logger.Error("product creation sequence rejected draft", "sku", sku, "error", err)
		return nil, err
	}

	refs := make([]catalogdomain.ImageRef, 0, len(input.Images))
	for i, upload := range input.Images {
		var ref catalogdomain.ImageRef
		step := catalogactivities.UploadImageInput{ProductID: productID, Position: i, Upload: upload}
		err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, uploadOptions), catalogactivities.UploadProductImageActivityName, step).Get(ctx, &ref)
		if err != nil {
			logger.Error("product creation sequence upload failed", "productId", productID, "position", i, "error", err)
			return nil, err
		}
		refs = append(refs, ref)
	}
	logger.Info("product creation sequence uploaded images", "productId", productID, "images", len(refs))

	var product catalogdomain.Product
	persist := catalogtypes.PersistProductInput{ID: productID, Draft: input.Draft, Images: refs}
	err = workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, persistOptions), catalogactivities.PersistProductActivityName, persist).Get(ctx, &product)
	if err != nil {
		logger.Error("product creation sequence persist failed", "productId", productID, "error", err)
		return nil, err
	}
	logger.Info("product creation sequence persisted", "productId", product.ID)
	return &product, nil
}
