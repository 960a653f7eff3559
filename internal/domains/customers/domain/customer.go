package domain

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyID             = errors.New("customer id is required")
	ErrEmptyCustomerNumber = errors.New("customer number is required")
	ErrInvalidEmail        = errors.New("email must contain '@'")
	ErrInvalidRole         = errors.New("role must be customer or admin")
	ErrWeakPassword        = errors.New("password must be at least 8 characters")
	ErrMissingPassword     = errors.New("customer has no password set")
)

// MinPasswordLength is the shortest accepted plaintext password.
const MinPasswordLength = 8

// Role decides what a customer account may do in the console.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// ParseRole validates an externally supplied role.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Profile holds the contact fields an operator may edit.
type Profile struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Address    string
	PostalCode string
	City       string
}

// Customer is a storefront account. Admin accounts may use the console.
type Customer struct {
	ID             string
	CustomerNumber string
	Profile
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}

// NewCustomer builds a customer with a hashed password.
func NewCustomer(id, customerNumber string, profile Profile, role Role, password string) (*Customer, error) {
	c := &Customer{
		ID:             strings.TrimSpace(id),
		CustomerNumber: strings.TrimSpace(customerNumber),
		Role:           role,
	}
	if err := c.UpdateProfile(profile); err != nil {
		return nil, err
	}
	if err := c.SetPassword(password); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateProfile trims every field and validates the email.
func (c *Customer) UpdateProfile(p Profile) error {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	c.Profile = Profile{
		FirstName:  strings.TrimSpace(p.FirstName),
		LastName:   strings.TrimSpace(p.LastName),
		Email:      email,
		Phone:      strings.TrimSpace(p.Phone),
		Address:    strings.TrimSpace(p.Address),
		PostalCode: strings.TrimSpace(p.PostalCode),
		City:       strings.TrimSpace(p.City),
	}
	return nil
}

func (c *Customer) ChangeRole(role Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	c.Role = role
	return nil
}

// SetPassword replaces the stored bcrypt hash.
func (c *Customer) SetPassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares password against the stored hash.
func (c *Customer) CheckPassword(password string) bool {
	if c.PasswordHash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}

func (c *Customer) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// FullName joins first and last name.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Validate re-applies invariants for persistence.
func (c *Customer) Validate() error {
	if c.ID == "" {
		return ErrEmptyID
	}
	if c.CustomerNumber == "" {
		return ErrEmptyCustomerNumber
	}
	if !strings.Contains(c.Email, "@") {
		return ErrInvalidEmail
	}
	if !c.Role.Valid() {
		return ErrInvalidRole
	}
	if c.PasswordHash == "" {
		return ErrMissingPassword
	}
	return nil
}

func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}
	copy := *c
	return &copy
}
