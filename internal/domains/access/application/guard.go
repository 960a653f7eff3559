package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/Apurer/storefront-console/internal/domains/access/domain"
	customertypes "github.com/Apurer/storefront-console/internal/domains/customers/application/types"
	customerdomain "github.com/Apurer/storefront-console/internal/domains/customers/domain"
	customerports "github.com/Apurer/storefront-console/internal/domains/customers/ports"
)

// Identity is the session boundary the guard consults.
type Identity interface {
	CurrentCaller(ctx context.Context, token string) (*customertypes.Caller, error)
	RoleOf(ctx context.Context, customerID string) (customerdomain.Role, error)
}

// Guard resolves a request's access gate from its session token.
type Guard struct {
	identity Identity
	logger   *slog.Logger
}

type Option func(*Guard)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func NewGuard(identity Identity, opts ...Option) *Guard {
	g := &Guard{
		identity: identity,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Resolve settles a gate for token. Lookup failures deny.
func (g *Guard) Resolve(ctx context.Context, token string) domain.Decision {
	var gate domain.Gate
	_ = gate.Settle(g.decide(ctx, strings.TrimSpace(token)))
	return gate.Decision()
}

func (g *Guard) decide(ctx context.Context, token string) domain.Decision {
	if token == "" {
		return domain.Deny(domain.ReasonNoSession, "")
	}
	caller, err := g.identity.CurrentCaller(ctx, token)
	if err != nil {
		if errors.Is(err, customerports.ErrUnauthenticated) {
			return domain.Deny(domain.ReasonNoSession, "")
		}
		g.logger.WarnContext(ctx, "session lookup failed", slog.String("error", err.Error()))
		return domain.Deny(domain.ReasonLookupFailed, "")
	}
	role, err := g.identity.RoleOf(ctx, caller.CustomerID)
	if err != nil {
		if errors.Is(err, customerports.ErrNotFound) {
			return domain.Deny(domain.ReasonNoSession, caller.CustomerID)
		}
		g.logger.WarnContext(ctx, "role lookup failed",
			slog.String("customer.id", caller.CustomerID),
			slog.String("error", err.Error()),
		)
		return domain.Deny(domain.ReasonLookupFailed, caller.CustomerID)
	}
	if role != customerdomain.RoleAdmin {
		return domain.Deny(domain.ReasonNotAdmin, caller.CustomerID)
	}
	return domain.Admit(caller.CustomerID, caller.SessionID)
}
