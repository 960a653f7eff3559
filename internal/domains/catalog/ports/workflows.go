package ports

import (
	"context"

	"github.com/Apurer/storefront-console/internal/domains/catalog/application/types"
	"github.com/Apurer/storefront-console/internal/domains/catalog/domain"
)

// WorkflowOrchestrator runs product creation, either inline or as a durable workflow.
type WorkflowOrchestrator interface {
	CreateProduct(ctx context.Context, input types.CreateProductInput) (*domain.Product, error)
}
