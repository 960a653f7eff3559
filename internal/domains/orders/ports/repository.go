package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-console/internal/domains/orders/domain"
)

var (
	ErrNotFound               = errors.New("order not found")
	ErrDuplicateInvoiceNumber = errors.New("invoice number already in use")
)

// Repository persists orders.
type Repository interface {
	// Save inserts the order when ID is zero and replaces it otherwise.
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
	// List returns orders sorted by CreatedAt then ID.
	List(ctx context.Context) ([]*domain.Order, error)
}
