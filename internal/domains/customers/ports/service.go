package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-console/internal/domains/customers/application/types"
	"github.com/Apurer/storefront-console/internal/domains/customers/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated covers missing, malformed, expired and revoked session tokens.
	ErrUnauthenticated = errors.New("no valid session")
)

// Service exposes the identity use cases: sessions plus customer administration.
type Service interface {
	Login(ctx context.Context, email, password string) (*types.LoginResult, error)
	Logout(ctx context.Context, token string) error
	CurrentCaller(ctx context.Context, token string) (*types.Caller, error)
	RoleOf(ctx context.Context, customerID string) (domain.Role, error)

	RegisterCustomer(ctx context.Context, input types.RegisterInput) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	LookupCustomers(ctx context.Context, ids []string) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id string, patch types.CustomerPatch) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}
