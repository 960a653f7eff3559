package ports

import (
	"context"

	"github.com/Apurer/storefront-console/internal/domains/orders/application/types"
)

// Service exposes order lifecycle use cases to adapters.
type Service interface {
	ListOrders(ctx context.Context) ([]*types.OrderView, error)
	GetOrder(ctx context.Context, id int64) (*types.OrderView, error)
	UpdateOrder(ctx context.Context, input types.UpdateOrderInput) (*types.OrderView, error)
	DeleteOrder(ctx context.Context, id int64) error
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.OrderView, error)
}
