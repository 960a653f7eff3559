package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-console/internal/domains/customers/domain"
)

var (
	ErrNotFound          = errors.New("customer not found")
	ErrDuplicateCustomer = errors.New("email or customer number already in use")
)

type Repository interface {
	// Save inserts or replaces the customer keyed by ID.
	Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	// FindByIDs returns the customers that exist; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Customer, error)
	Delete(ctx context.Context, id string) error
	// List returns customers ordered by customer number.
	List(ctx context.Context) ([]*domain.Customer, error)
}
