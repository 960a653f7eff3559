package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/storefront-console/internal/domains/customers/domain"
	"github.com/Apurer/storefront-console/internal/domains/customers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps customers in memory.
type Repository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
}

func NewRepository() *Repository {
	return &Repository{customers: map[string]*domain.Customer{}}
}

func (r *Repository) Save(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	clone := customer.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.customers {
		if id == clone.ID {
			continue
		}
		if existing.Email == clone.Email || existing.CustomerNumber == clone.CustomerNumber {
			return nil, ports.ErrDuplicateCustomer
		}
	}
	r.customers[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return c.Clone(), nil
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if c.Email == email {
			return c.Clone(), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) FindByIDs(_ context.Context, ids []string) ([]*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	found := make([]*domain.Customer, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.customers[id]; ok {
			found = append(found, c.Clone())
		}
	}
	return found, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		list = append(list, c.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CustomerNumber < list[j].CustomerNumber })
	return list, nil
}
