package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/storefront-console/internal/domains/customers/domain"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists login sessions.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByCustomer(ctx context.Context, customerID string) error
	// PurgeExpired removes sessions expired at now and reports how many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
