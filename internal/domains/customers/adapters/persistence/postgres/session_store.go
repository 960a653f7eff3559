package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-console/internal/domains/customers/domain"
	"github.com/Apurer/storefront-console/internal/domains/customers/ports"
	platformpostgres "github.com/Apurer/storefront-console/internal/platform/postgres"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore persists login sessions in PostgreSQL.
type SessionStore struct {
	db *gorm.DB
}

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

type sessionRecord struct {
	ID         string    `gorm:"primaryKey;column:id;type:uuid"`
	CustomerID string    `gorm:"column:customer_id;type:uuid;index"`
	ExpiresAt  time.Time `gorm:"column:expires_at;index"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (sessionRecord) TableName() string { return "customer_sessions" }

// MigrateSessions creates or updates the customer_sessions table.
func MigrateSessions(db *gorm.DB) error {
	return db.AutoMigrate(&sessionRecord{})
}

func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if session == nil || session.ID == "" || session.CustomerID == "" {
		return errors.New("session id and customer id are required")
	}
	rec := sessionRecord{
		ID:         session.ID,
		CustomerID: session.CustomerID,
		ExpiresAt:  session.ExpiresAt,
		CreatedAt:  session.CreatedAt,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"customer_id", "expires_at"}),
		}).
		Create(&rec).Error
	return platformpostgres.ClassifyError(err)
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var rec sessionRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrSessionNotFound
		}
		return nil, platformpostgres.ClassifyError(err)
	}
	return &domain.Session{
		ID:         rec.ID,
		CustomerID: rec.CustomerID,
		ExpiresAt:  rec.ExpiresAt.UTC(),
		CreatedAt:  rec.CreatedAt.UTC(),
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return platformpostgres.ClassifyError(s.db.WithContext(ctx).Delete(&sessionRecord{}, "id = ?", id).Error)
}

func (s *SessionStore) DeleteByCustomer(ctx context.Context, customerID string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return platformpostgres.ClassifyError(s.db.WithContext(ctx).Delete(&sessionRecord{}, "customer_id = ?", customerID).Error)
}

// PurgeExpired removes all sessions expired at now. Run by the session purger.
func (s *SessionStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&sessionRecord{})
	if result.Error != nil {
		return 0, platformpostgres.ClassifyError(result.Error)
	}
	return result.RowsAffected, nil
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}
