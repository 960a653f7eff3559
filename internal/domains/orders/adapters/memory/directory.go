package memory

import (
	"context"
	"sync"

	"github.com/Apurer/storefront-console/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-console/internal/domains/orders/domain"
	"github.com/Apurer/storefront-console/internal/domains/orders/ports"
)

var (
	_ ports.CustomerDirectory = (*CustomerDirectory)(nil)
	_ ports.ProductCatalog    = (*ProductCatalog)(nil)
)

// CustomerDirectory is a fixed set of customer summaries for tests.
type CustomerDirectory struct {
	mu        sync.RWMutex
	customers map[string]types.CustomerSummary
}

func NewCustomerDirectory(customers ...types.CustomerSummary) *CustomerDirectory {
	d := &CustomerDirectory{customers: map[string]types.CustomerSummary{}}
	for _, c := range customers {
		d.customers[c.Ref] = c
	}
	return d
}

func (d *CustomerDirectory) Remove(ref string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.customers, ref)
}

func (d *CustomerDirectory) Lookup(_ context.Context, refs []string) (map[string]types.CustomerSummary, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	found := make(map[string]types.CustomerSummary, len(refs))
	for _, ref := range refs {
		if c, ok := d.customers[ref]; ok {
			found[ref] = c
		}
	}
	return found, nil
}

// ProductCatalog is a mutable set of product snapshots for tests.
type ProductCatalog struct {
	mu       sync.RWMutex
	products map[int64]domain.ProductSnapshot
}

func NewProductCatalog(products ...domain.ProductSnapshot) *ProductCatalog {
	c := &ProductCatalog{products: map[int64]domain.ProductSnapshot{}}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

// Put adds or replaces a product.
func (c *ProductCatalog) Put(product domain.ProductSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[product.ID] = product
}

func (c *ProductCatalog) Snapshot(_ context.Context, productID int64) (domain.ProductSnapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[productID]
	if !ok {
		return domain.ProductSnapshot{}, ports.ErrUnknownProduct
	}
	return p, nil
}
