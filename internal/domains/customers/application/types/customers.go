package types

import (
	"time"

	"github.com/Apurer/storefront-console/internal/domains/customers/domain"
)

// LoginResult carries the signed session token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Customer  *domain.Customer
}

// Caller is the identity behind a verified session token.
type Caller struct {
	CustomerID string
	SessionID  string
	ExpiresAt  time.Time
}

// RegisterInput creates a customer account. CustomerNumber is generated when empty.
type RegisterInput struct {
	CustomerNumber string
	Profile        domain.Profile
	Role           domain.Role
	Password       string
}

// CustomerPatch applies only the supplied fields.
type CustomerPatch struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Phone      *string
	Address    *string
	PostalCode *string
	City       *string
	Role       *domain.Role
	Password   *string
}
