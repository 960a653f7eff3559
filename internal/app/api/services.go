package api

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	accessapp "github.com/Apurer/storefront-console/internal/domains/access/application"
	catalogmemory "github.com/Apurer/storefront-console/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/storefront-console/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/storefront-console/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/storefront-console/internal/domains/catalog/application"
	catalogports "github.com/Apurer/storefront-console/internal/domains/catalog/ports"
	customermemory "github.com/Apurer/storefront-console/internal/domains/customers/adapters/memory"
	customersobs "github.com/Apurer/storefront-console/internal/domains/customers/adapters/observability"
	customerspostgres "github.com/Apurer/storefront-console/internal/domains/customers/adapters/persistence/postgres"
	customersapp "github.com/Apurer/storefront-console/internal/domains/customers/application"
	customertypes "github.com/Apurer/storefront-console/internal/domains/customers/application/types"
	customerdomain "github.com/Apurer/storefront-console/internal/domains/customers/domain"
	customersports "github.com/Apurer/storefront-console/internal/domains/customers/ports"
	invoicesobs "github.com/Apurer/storefront-console/internal/domains/invoices/adapters/observability"
	"github.com/Apurer/storefront-console/internal/domains/invoices/adapters/render"
	invoicesapp "github.com/Apurer/storefront-console/internal/domains/invoices/application"
	invoicesdomain "github.com/Apurer/storefront-console/internal/domains/invoices/domain"
	invoicesports "github.com/Apurer/storefront-console/internal/domains/invoices/ports"
	ordercatalog "github.com/Apurer/storefront-console/internal/domains/orders/adapters/catalog"
	ordercustomers "github.com/Apurer/storefront-console/internal/domains/orders/adapters/customers"
	ordermemory "github.com/Apurer/storefront-console/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/storefront-console/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/storefront-console/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/storefront-console/internal/domains/orders/application"
	ordersports "github.com/Apurer/storefront-console/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/storefront-console/internal/platform/observability"
)

// Services holds the decorated application services of every bounded context.
type Services struct {
	Catalog   catalogports.Service
	Orders    ordersports.Service
	Invoices  invoicesports.Service
	Customers customersports.Service
	Guard     *accessapp.Guard
}

// NewServices builds the services on Postgres when db is set, otherwise on memory adapters.
func NewServices(cfg Config, db *gorm.DB, instruments *platformobservability.Instruments) (*Services, error) {
	logger := instruments.Logger

	signingKey, err := sessionKey(cfg, logger)
	if err != nil {
		return nil, err
	}
	signer, err := customersapp.NewTokenSigner(signingKey)
	if err != nil {
		return nil, err
	}

	var (
		productRepo      catalogports.Repository
		objects          catalogports.ObjectStore
		orderRepo        ordersports.Repository
		idempotency      ordersports.IdempotencyStore
		customerRepo     customersports.Repository
		customerSessions customersports.SessionStore
	)
	if db != nil {
		productRepo = catalogpostgres.NewRepository(db, catalogpostgres.WithLogger(logger))
		objects = catalogpostgres.NewObjectStore(db, cfg.PublicBaseURL)
		orderRepo = orderspostgres.NewRepository(db, orderspostgres.WithLogger(logger))
		idempotency = orderspostgres.NewIdempotencyStore(db)
		customerRepo = customerspostgres.NewRepository(db)
		customerSessions = customerspostgres.NewSessionStore(db)
		logger.Info("repositories configured with postgres")
	} else {
		productRepo = catalogmemory.NewRepository()
		objects = catalogmemory.NewObjectStore(cfg.PublicBaseURL)
		orderRepo = ordermemory.NewRepository()
		idempotency = ordermemory.NewIdempotencyStore()
		customerRepo = customermemory.NewRepository()
		customerSessions = customermemory.NewSessionStore()
		logger.Warn("repositories configured in memory, data is lost on restart")
	}

	customers := customersobs.New(
		customersapp.NewService(customerRepo, customerSessions, signer, customersapp.WithSessionTTL(cfg.SessionTTL)),
		customersobs.WithLogger(logger),
		customersobs.WithTracer(instruments.Tracer("internal.customers.application")),
		customersobs.WithMeter(instruments.Meter("internal.customers.application")),
	)
	catalog := catalogobs.New(
		catalogapp.NewService(productRepo, objects),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	orders := ordersobs.New(
		ordersapp.NewService(orderRepo,
			ordersapp.WithProductCatalog(ordercatalog.NewReader(catalog)),
			ordersapp.WithCustomerDirectory(ordercustomers.NewDirectory(customers)),
			ordersapp.WithIdempotencyStore(idempotency),
			ordersapp.WithIdempotencyTTL(cfg.IdempotencyTTL),
			ordersapp.WithLogger(logger),
		),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	invoices := invoicesobs.New(
		invoicesapp.NewService(orders,
			invoicesdomain.Branding{StoreName: cfg.StoreName, Currency: cfg.Currency},
			render.Text{}, render.PDF{},
		),
		invoicesobs.WithLogger(logger),
		invoicesobs.WithTracer(instruments.Tracer("internal.invoices.application")),
		invoicesobs.WithMeter(instruments.Meter("internal.invoices.application")),
	)

	return &Services{
		Catalog:   catalog,
		Orders:    orders,
		Invoices:  invoices,
		Customers: customers,
		Guard:     accessapp.NewGuard(customers, accessapp.WithLogger(logger)),
	}, nil
}

// BootstrapAdmin creates the configured administrator unless the email is taken.
func (s *Services) BootstrapAdmin(ctx context.Context, admin BootstrapAdmin, logger *slog.Logger) error {
	if !admin.Enabled() {
		return nil
	}
	_, err := s.Customers.RegisterCustomer(ctx, customertypes.RegisterInput{
		Profile: customerdomain.Profile{
			FirstName: "Console",
			LastName:  "Administrator",
			Email:     admin.Email,
		},
		Role:     customerdomain.RoleAdmin,
		Password: admin.Password,
	})
	if errors.Is(err, customersports.ErrDuplicateCustomer) {
		logger.Info("bootstrap administrator already present", slog.String("customer.email", admin.Email))
		return nil
	}
	if err != nil {
		return fmt.Errorf("bootstrap administrator: %w", err)
	}
	logger.Info("bootstrap administrator created", slog.String("customer.email", admin.Email))
	return nil
}

// sessionKey returns the configured key or, when unset, a random one that only lives as long as the process.
func sessionKey(cfg Config, logger *slog.Logger) ([]byte, error) {
	if cfg.SessionSigningKey != "" {
		return []byte(cfg.SessionSigningKey), nil
	}
	key := make([]byte, customersapp.MinSigningKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate session signing key: %w", err)
	}
	logger.Warn("SESSION_SIGNING_KEY not set, sessions will not survive a restart")
	return key, nil
}
