package catalog

import (
	"go.temporal.io/sdk/workflow"

	catalogtypes "github.com/Apurer/storefront-console/internal/domains/catalog/application/types"
	catalogdomain "github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-console/internal/platform/temporal/sequences"
)

const (
	// ProductCreationWorkflowName is the public identifier for registering the workflow.
	ProductCreationWorkflowName = "catalog.workflows.ProductCreation"
	// ProductCreationTaskQueue is the queue consumed by the worker processing catalog workflows.
	ProductCreationTaskQueue = "PRODUCT_CREATION"
)

// ProductCreationWorkflowInput captures the payload required to create a product.
type ProductCreationWorkflowInput struct {
	Command catalogtypes.CreateProductInput
	TraceID string
}

// ProductCreationWorkflow orchestrates reservation, sequential image upload and persistence.
func ProductCreationWorkflow(ctx workflow.Context, input ProductCreationWorkflowInput) (*catalogdomain.Product, error) {
	logger := workflow.GetLogger(ctx)
	sku := input.Command.Draft.SKU
	logger.Info("ProductCreationWorkflow started", withTraceID(input.TraceID, "sku", sku)...)
	product, err := sequences.RunProductCreationSequence(ctx, input.Command)
	if err != nil {
		logger.Error("ProductCreationWorkflow failed", withTraceID(input.TraceID, "sku", sku, "error", err)...)
		return nil, err
	}
	logger.Info("ProductCreationWorkflow completed", withTraceID(input.TraceID, "productId", product.ID)...)
	return product, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
