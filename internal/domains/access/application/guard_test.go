package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Apurer/storefront-console/internal/domains/access/domain"
	customertypes "github.com/Apurer/storefront-console/internal/domains/customers/application/types"
	customerdomain "github.com/Apurer/storefront-console/internal/domains/customers/domain"
	customerports "github.com/Apurer/storefront-console/internal/domains/customers/ports"
)

type fakeIdentity struct {
	callers   map[string]*customertypes.Caller
	roles     map[string]customerdomain.Role
	callerErr error
	roleErr   error
}

func (f *fakeIdentity) CurrentCaller(_ context.Context, token string) (*customertypes.Caller, error) {
	if f.callerErr != nil {
		return nil, f.callerErr
	}
	caller, ok := f.callers[token]
	if !ok {
		return nil, customerports.ErrUnauthenticated
	}
	return caller, nil
}

func (f *fakeIdentity) RoleOf(_ context.Context, customerID string) (customerdomain.Role, error) {
	if f.roleErr != nil {
		return "", f.roleErr
	}
	role, ok := f.roles[customerID]
	if !ok {
		return "", customerports.ErrNotFound
	}
	return role, nil
}

func newIdentity() *fakeIdentity {
	return &fakeIdentity{
		callers: map[string]*customertypes.Caller{
			"admin-token": {CustomerID: "c-admin", SessionID: "s-1"},
			"user-token":  {CustomerID: "c-user", SessionID: "s-2"},
			"ghost-token": {CustomerID: "c-ghost", SessionID: "s-3"},
		},
		roles: map[string]customerdomain.Role{
			"c-admin": customerdomain.RoleAdmin,
			"c-user":  customerdomain.RoleCustomer,
		},
	}
}

func TestResolveAdmitsAdmin(t *testing.T) {
	guard := NewGuard(newIdentity())

	decision := guard.Resolve(context.Background(), "admin-token")

	assert.True(t, decision.Admitted())
	assert.Equal(t, "c-admin", decision.CustomerID)
	assert.Equal(t, "s-1", decision.SessionID)
}

func TestResolveDenials(t *testing.T) {
	guard := NewGuard(newIdentity())
	cases := []struct {
		name   string
		token  string
		reason domain.Reason
	}{
		{name: "missing token", token: "  ", reason: domain.ReasonNoSession},
		{name: "unknown token", token: "nope", reason: domain.ReasonNoSession},
		{name: "customer role", token: "user-token", reason: domain.ReasonNotAdmin},
		{name: "deleted customer", token: "ghost-token", reason: domain.ReasonNoSession},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision := guard.Resolve(context.Background(), tc.token)
			assert.Equal(t, domain.StateDenied, decision.State)
			assert.Equal(t, tc.reason, decision.Reason)
		})
	}
}

func TestResolveDeniesOnLookupFailure(t *testing.T) {
	identity := newIdentity()
	identity.roleErr = errors.New("db down")
	guard := NewGuard(identity)

	decision := guard.Resolve(context.Background(), "admin-token")

	assert.Equal(t, domain.StateDenied, decision.State)
	assert.Equal(t, domain.ReasonLookupFailed, decision.Reason)

	identity.roleErr = nil
	identity.callerErr = errors.New("session store unreachable")
	decision = guard.Resolve(context.Background(), "admin-token")
	assert.Equal(t, domain.ReasonLookupFailed, decision.Reason)
}
