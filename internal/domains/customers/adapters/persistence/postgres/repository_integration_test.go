//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-console/internal/domains/customers/adapters/persistence/postgres"
	"github.com/Apurer/storefront-console/internal/domains/customers/domain"
	"github.com/Apurer/storefront-console/internal/domains/customers/ports"
	"github.com/Apurer/storefront-console/internal/platform/postgres/pgtest"
)

func newCustomer(t *testing.T, id, number, email string) *domain.Customer {
	t.Helper()
	c, err := domain.NewCustomer(id, number, domain.Profile{FirstName: "Alex", LastName: "Berg", Email: email, City: "Umeå"}, domain.RoleAdmin, "correct-horse")
	require.NoError(t, err)
	return c
}

func TestRepository_SaveAndLookup(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db, cleanup := pgtest.Setup(t)
	defer cleanup()

	repo := postgres.NewRepository(db)
	ctx := context.Background()

	alex := newCustomer(t, "2d1c2c7e-1a36-4d43-9d0c-3f6a1b0f1a01", "C-1001", "alex@example.com")
	_, err := repo.Save(ctx, alex)
	require.NoError(t, err)

	byEmail, err := repo.GetByEmail(ctx, "ALEX@example.com")
	require.NoError(t, err)
	assert.Equal(t, alex.ID, byEmail.ID)
	assert.True(t, byEmail.CheckPassword("correct-horse"))
	assert.Equal(t, "Umeå", byEmail.City)

	_, err = repo.Save(ctx, newCustomer(t, "2d1c2c7e-1a36-4d43-9d0c-3f6a1b0f1a02", "C-1002", "alex@example.com"))
	require.ErrorIs(t, err, ports.ErrDuplicateCustomer)

	found, err := repo.FindByIDs(ctx, []string{alex.ID, "2d1c2c7e-1a36-4d43-9d0c-3f6a1b0f1aff"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, repo.Delete(ctx, alex.ID))
	require.ErrorIs(t, repo.Delete(ctx, alex.ID), ports.ErrNotFound)
	_, err = repo.GetByID(ctx, alex.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSessionStore_LifecycleAndPurge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db, cleanup := pgtest.Setup(t)
	defer cleanup()

	store := postgres.NewSessionStore(db)
	ctx := context.Background()
	now := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	customerID := "2d1c2c7e-1a36-4d43-9d0c-3f6a1b0f1a01"

	live, err := domain.NewSession("7b0b7b5e-0000-4000-8000-000000000001", customerID, now, time.Hour)
	require.NoError(t, err)
	stale, err := domain.NewSession("7b0b7b5e-0000-4000-8000-000000000002", customerID, now.Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, live))
	require.NoError(t, store.Save(ctx, stale))

	got, err := store.Get(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, customerID, got.CustomerID)
	assert.True(t, got.ExpiresAt.Equal(live.ExpiresAt))

	purged, err := store.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
	_, err = store.Get(ctx, stale.ID)
	require.ErrorIs(t, err, ports.ErrSessionNotFound)

	require.NoError(t, store.DeleteByCustomer(ctx, customerID))
	_, err = store.Get(ctx, live.ID)
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
}
