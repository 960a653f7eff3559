package ports

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrIdempotencyConflict means the key was already used on the order for a different edit.
	ErrIdempotencyConflict = errors.New("idempotency conflict")
	// ErrIdempotencyKeyTaken means a live reservation for the same edit already exists.
	ErrIdempotencyKeyTaken = errors.New("idempotency key already reserved")
)

// IdempotencyRecord ties a client key to one edit of one order. Keys are scoped per order.
type IdempotencyRecord struct {
	OrderID     int64
	Key         string
	RequestHash string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the record no longer guards replays at the given instant.
func (r IdempotencyRecord) Expired(at time.Time) bool {
	return !at.Before(r.ExpiresAt)
}

// IdempotencyStore remembers order edit keys so retried edits replay instead of re-applying.
type IdempotencyStore interface {
	// Get returns the record for the key on the order, or nil when unknown. Expired records are returned as is.
	Get(ctx context.Context, orderID int64, key string) (*IdempotencyRecord, error)
	// Reserve stores the record. A record for the same order and key still live at record.CreatedAt
	// wins and is returned with ErrIdempotencyKeyTaken for the same hash or ErrIdempotencyConflict
	// otherwise. An expired record is replaced.
	Reserve(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
	// Release drops the key from the order. Unknown keys are ignored.
	Release(ctx context.Context, orderID int64, key string) error
}
