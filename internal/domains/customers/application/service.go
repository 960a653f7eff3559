package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/storefront-console/internal/domains/customers/application/types"
	"github.com/Apurer/storefront-console/internal/domains/customers/domain"
	"github.com/Apurer/storefront-console/internal/domains/customers/ports"
)

// DefaultSessionTTL applies when no TTL is configured.
const DefaultSessionTTL = 24 * time.Hour

// Service exposes customer and session use cases.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
	tokens   *TokenSigner
	ttl      time.Duration
	now      func() time.Time
}

type Option func(*Service)

func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, sessions ports.SessionStore, tokens *TokenSigner, opts ...Option) *Service {
	s := &Service{repo: repo, sessions: sessions, tokens: tokens, ttl: DefaultSessionTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if tokens != nil {
		tokens.now = s.now
	}
	return s
}

// Login verifies the password and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*types.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ports.ErrInvalidCredentials
	}
	customer, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrInvalidCredentials
		}
		return nil, err
	}
	if !customer.CheckPassword(password) {
		return nil, ports.ErrInvalidCredentials
	}
	session, err := domain.NewSession(uuid.NewString(), customer.ID, s.now(), s.ttl)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	token, err := s.tokens.Sign(customer.ID, session.ID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &types.LoginResult{Token: token, ExpiresAt: session.ExpiresAt, Customer: customer}, nil
}

// Logout revokes the session behind token. Unknown sessions are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	sessionID, err := s.tokens.SessionID(token)
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrUnauthenticated, err)
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, ports.ErrSessionNotFound) {
		return err
	}
	return nil
}

// CurrentCaller resolves the identity behind token. The session must still exist server side.
func (s *Service) CurrentCaller(ctx context.Context, token string) (*types.Caller, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ports.ErrUnauthenticated
	}
	customerID, sessionID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrUnauthenticated, err)
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil, ports.ErrUnauthenticated
		}
		return nil, err
	}
	if session.CustomerID != customerID || session.Expired(s.now()) {
		return nil, ports.ErrUnauthenticated
	}
	return &types.Caller{CustomerID: customerID, SessionID: sessionID, ExpiresAt: session.ExpiresAt}, nil
}

func (s *Service) RoleOf(ctx context.Context, customerID string) (domain.Role, error) {
	customer, err := s.repo.GetByID(ctx, customerID)
	if err != nil {
		return "", err
	}
	return customer.Role, nil
}

func (s *Service) RegisterCustomer(ctx context.Context, input types.RegisterInput) (*domain.Customer, error) {
	number := strings.TrimSpace(input.CustomerNumber)
	if number == "" {
		number = newCustomerNumber()
	}
	role := input.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	customer, err := domain.NewCustomer(uuid.NewString(), number, input.Profile, role, input.Password)
	if err != nil {
		return nil, mapError(err)
	}
	customer.CreatedAt = s.now().UTC()
	if existing, err := s.repo.GetByEmail(ctx, customer.Email); err == nil && existing != nil {
		return nil, ports.ErrDuplicateCustomer
	} else if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	return s.repo.Save(ctx, customer)
}

func (s *Service) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) LookupCustomers(ctx context.Context, ids []string) ([]*domain.Customer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.repo.FindByIDs(ctx, ids)
}

// UpdateCustomer applies the patch. A password change or demotion revokes the customer's sessions.
func (s *Service) UpdateCustomer(ctx context.Context, id string, patch types.CustomerPatch) (*domain.Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousEmail, previousRole := customer.Email, customer.Role
	if err := applyPatch(customer, patch); err != nil {
		return nil, mapError(err)
	}
	if customer.Email != previousEmail {
		if other, err := s.repo.GetByEmail(ctx, customer.Email); err == nil && other.ID != customer.ID {
			return nil, ports.ErrDuplicateCustomer
		} else if err != nil && !errors.Is(err, ports.ErrNotFound) {
			return nil, err
		}
	}
	saved, err := s.repo.Save(ctx, customer)
	if err != nil {
		return nil, mapError(err)
	}
	if patch.Password != nil || (previousRole == domain.RoleAdmin && saved.Role != domain.RoleAdmin) {
		if err := s.sessions.DeleteByCustomer(ctx, saved.ID); err != nil {
			return nil, err
		}
	}
	return saved, nil
}

// DeleteCustomer removes the account and its sessions. Orders keep their customer reference.
func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.sessions.DeleteByCustomer(ctx, id)
}

func (s *Service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.PurgeExpired(ctx, s.now())
}

func applyPatch(c *domain.Customer, patch types.CustomerPatch) error {
	profile := c.Profile
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&profile.FirstName, patch.FirstName)
	set(&profile.LastName, patch.LastName)
	set(&profile.Email, patch.Email)
	set(&profile.Phone, patch.Phone)
	set(&profile.Address, patch.Address)
	set(&profile.PostalCode, patch.PostalCode)
	set(&profile.City, patch.City)
	if err := c.UpdateProfile(profile); err != nil {
		return err
	}
	if patch.Role != nil {
		if err := c.ChangeRole(*patch.Role); err != nil {
			return err
		}
	}
	if patch.Password != nil {
		if err := c.SetPassword(*patch.Password); err != nil {
			return err
		}
	}
	return nil
}

func newCustomerNumber() string {
	return "C-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

var _ ports.Service = (*Service)(nil)
