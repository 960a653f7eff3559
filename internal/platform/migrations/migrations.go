// Package migrations applies the console schema owned by each persistence adapter.
package migrations

import (
	"fmt"

	"gorm.io/gorm"

	catalogpostgres "github.com/Apurer/storefront-console/internal/domains/catalog/adapters/persistence/postgres"
	customerspostgres "github.com/Apurer/storefront-console/internal/domains/customers/adapters/persistence/postgres"
	orderspostgres "github.com/Apurer/storefront-console/internal/domains/orders/adapters/persistence/postgres"
)

type step struct {
	name    string
	migrate func(*gorm.DB) error
}

var steps = []step{
	{name: "customers", migrate: customerspostgres.Migrate},
	{name: "customer_sessions", migrate: customerspostgres.MigrateSessions},
	{name: "products", migrate: catalogpostgres.Migrate},
	{name: "product_assets", migrate: catalogpostgres.MigrateAssets},
	{name: "orders", migrate: orderspostgres.Migrate},
	{name: "order_idempotency_keys", migrate: orderspostgres.MigrateIdempotency},
}

// Run applies every table in dependency order. A nil db is a no-op for memory-backed runs.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	for _, s := range steps {
		if err := s.migrate(db); err != nil {
			return fmt.Errorf("migrate %s: %w", s.name, err)
		}
	}
	return nil
}

// Tables lists the managed tables in the order Run creates them.
func Tables() []string {
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.name)
	}
	return names
}
