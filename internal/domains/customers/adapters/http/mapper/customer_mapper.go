package mapper

import (
	"fmt"
	"time"

	"github.com/Apurer/storefront-console/internal/domains/customers/application/types"
	"github.com/Apurer/storefront-console/internal/domains/customers/domain"
)

// Customer is the transport-level customer payload. The password hash never leaves the service.
type Customer struct {
	ID             string    `json:"id"`
	CustomerNumber string    `json:"customerNumber"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	PostalCode     string    `json:"postalCode"`
	City           string    `json:"city"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CustomerPatch is the body of PUT /customers/:customerId; absent fields are left untouched.
type CustomerPatch struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	PostalCode *string `json:"postalCode"`
	City       *string `json:"city"`
	Role       *string `json:"role"`
	Password   *string `json:"password"`
}

// Credentials is the login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session describes the caller's session.
type Session struct {
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
	Customer  Customer  `json:"customer"`
}

func FromDomainCustomer(c *domain.Customer) Customer {
	if c == nil {
		return Customer{}
	}
	return Customer{
		ID:             c.ID,
		CustomerNumber: c.CustomerNumber,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		PostalCode:     c.PostalCode,
		City:           c.City,
		Role:           string(c.Role),
		CreatedAt:      c.CreatedAt,
	}
}

func FromDomainCustomers(list []*domain.Customer) []Customer {
	out := make([]Customer, 0, len(list))
	for _, c := range list {
		out = append(out, FromDomainCustomer(c))
	}
	return out
}

// ToPatch converts the transport patch, validating the role name.
func ToPatch(p CustomerPatch) (types.CustomerPatch, error) {
	patch := types.CustomerPatch{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Phone:      p.Phone,
		Address:    p.Address,
		PostalCode: p.PostalCode,
		City:       p.City,
		Password:   p.Password,
	}
	if p.Role != nil {
		role, err := domain.ParseRole(*p.Role)
		if err != nil {
			return types.CustomerPatch{}, fmt.Errorf("role %q: %w", *p.Role, err)
		}
		patch.Role = &role
	}
	return patch, nil
}
