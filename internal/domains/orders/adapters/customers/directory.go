package customers

import (
	"context"

	customerdomain "github.com/Apurer/storefront-console/internal/domains/customers/domain"
	"github.com/Apurer/storefront-console/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-console/internal/domains/orders/ports"
)

var _ ports.CustomerDirectory = (*Directory)(nil)

// CustomerLookup is the part of the customers service the order context reads.
type CustomerLookup interface {
	LookupCustomers(ctx context.Context, ids []string) ([]*customerdomain.Customer, error)
}

// Directory joins customer details into order views by customer ID.
type Directory struct {
	customers CustomerLookup
}

func NewDirectory(customers CustomerLookup) *Directory {
	return &Directory{customers: customers}
}

func (d *Directory) Lookup(ctx context.Context, refs []string) (map[string]types.CustomerSummary, error) {
	found, err := d.customers.LookupCustomers(ctx, refs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]types.CustomerSummary, len(found))
	for _, c := range found {
		out[c.ID] = types.CustomerSummary{
			Ref:            c.ID,
			CustomerNumber: c.CustomerNumber,
			FirstName:      c.FirstName,
			LastName:       c.LastName,
			Email:          c.Email,
		}
	}
	return out, nil
}
