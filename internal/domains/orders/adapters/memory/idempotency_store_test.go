package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-console/internal/domains/orders/adapters/memory"
	"github.com/Apurer/storefront-console/internal/domains/orders/ports"
)

var reservedAt = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

func keyRecord(orderID int64, key, hash string, at time.Time) ports.IdempotencyRecord {
	return ports.IdempotencyRecord{OrderID: orderID, Key: key, RequestHash: hash, CreatedAt: at, ExpiresAt: at.Add(time.Hour)}
}

func TestIdempotencyStore_KeysAreScopedPerOrder(t *testing.T) {
	store := memory.NewIdempotencyStore()
	ctx := context.Background()

	_, err := store.Reserve(ctx, keyRecord(1, "edit-1", "h1", reservedAt))
	require.NoError(t, err)
	_, err = store.Reserve(ctx, keyRecord(2, "edit-1", "h2", reservedAt))
	require.NoError(t, err)

	first, err := store.Get(ctx, 1, "edit-1")
	require.NoError(t, err)
	assert.Equal(t, "h1", first.RequestHash)
	second, err := store.Get(ctx, 2, "edit-1")
	require.NoError(t, err)
	assert.Equal(t, "h2", second.RequestHash)

	missing, err := store.Get(ctx, 3, "edit-1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIdempotencyStore_LiveKeyWins(t *testing.T) {
	store := memory.NewIdempotencyStore()
	ctx := context.Background()
	_, err := store.Reserve(ctx, keyRecord(1, "edit-1", "h1", reservedAt))
	require.NoError(t, err)

	existing, err := store.Reserve(ctx, keyRecord(1, "edit-1", "h1", reservedAt.Add(time.Minute)))
	require.ErrorIs(t, err, ports.ErrIdempotencyKeyTaken)
	assert.Equal(t, reservedAt, existing.CreatedAt)

	existing, err = store.Reserve(ctx, keyRecord(1, "edit-1", "h2", reservedAt.Add(time.Minute)))
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	assert.Equal(t, "h1", existing.RequestHash)
}

func TestIdempotencyStore_ExpiredKeyIsReplaced(t *testing.T) {
	store := memory.NewIdempotencyStore()
	ctx := context.Background()
	_, err := store.Reserve(ctx, keyRecord(1, "edit-1", "h1", reservedAt))
	require.NoError(t, err)

	later := reservedAt.Add(time.Hour)
	saved, err := store.Reserve(ctx, keyRecord(1, "edit-1", "h2", later))
	require.NoError(t, err)
	assert.Equal(t, "h2", saved.RequestHash)
	assert.Equal(t, 1, store.Len())

	current, err := store.Get(ctx, 1, "edit-1")
	require.NoError(t, err)
	assert.False(t, current.Expired(later))
	assert.True(t, current.Expired(later.Add(time.Hour)))
}

func TestIdempotencyStore_Release(t *testing.T) {
	store := memory.NewIdempotencyStore()
	ctx := context.Background()
	_, err := store.Reserve(ctx, keyRecord(1, "edit-1", "h1", reservedAt))
	require.NoError(t, err)

	require.NoError(t, store.Release(ctx, 1, "edit-1"))
	require.NoError(t, store.Release(ctx, 1, "unknown"))
	assert.Equal(t, 0, store.Len())

	_, err = store.Reserve(ctx, keyRecord(1, "edit-1", "h2", reservedAt))
	require.NoError(t, err)
}
