package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/storefront-console/internal/domains/orders/ports"
	platformpostgres "github.com/Apurer/storefront-console/internal/platform/postgres"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore persists order edit keys in PostgreSQL, one row per order and key.
type IdempotencyStore struct {
	db *gorm.DB
}

func NewIdempotencyStore(db *gorm.DB) *IdempotencyStore {
	return &IdempotencyStore{db: db}
}

type idempotencyRecord struct {
	OrderID     int64     `gorm:"primaryKey;autoIncrement:false;column:order_id"`
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	ExpiresAt   time.Time `gorm:"column:expires_at;not null;index"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }

// MigrateIdempotency creates or updates the order_idempotency_keys table.
func MigrateIdempotency(db *gorm.DB) error {
	return db.AutoMigrate(&idempotencyRecord{})
}

func (s *IdempotencyStore) Get(ctx context.Context, orderID int64, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record idempotencyRecord
	if err := s.db.WithContext(ctx).First(&record, "order_id = ? AND key = ?", orderID, key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformpostgres.ClassifyError(err)
	}
	return record.toPort(), nil
}

// Reserve inserts the record, or takes over a row that expired before record.CreatedAt.
func (s *IdempotencyStore) Reserve(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	row := fromPort(record)
	err := s.db.WithContext(ctx).Create(&row).Error
	if err == nil {
		return row.toPort(), nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, platformpostgres.ClassifyError(err)
	}

	renewed := s.db.WithContext(ctx).Model(&idempotencyRecord{}).
		Where("order_id = ? AND key = ? AND expires_at <= ?", record.OrderID, record.Key, record.CreatedAt).
		Updates(map[string]any{
			"request_hash": record.RequestHash,
			"created_at":   record.CreatedAt,
			"expires_at":   record.ExpiresAt,
		})
	if renewed.Error != nil {
		return nil, platformpostgres.ClassifyError(renewed.Error)
	}
	if renewed.RowsAffected == 1 {
		return row.toPort(), nil
	}

	existing, err := s.Get(ctx, record.OrderID, record.Key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("reserve idempotency key %q: released concurrently", record.Key)
	}
	if existing.RequestHash != record.RequestHash {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, ports.ErrIdempotencyKeyTaken
}

func (s *IdempotencyStore) Release(ctx context.Context, orderID int64, key string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Where("order_id = ? AND key = ?", orderID, key).Delete(&idempotencyRecord{}).Error
	return platformpostgres.ClassifyError(err)
}

// DeleteExpired removes keys that expired before at and reports how many were dropped.
func (s *IdempotencyStore) DeleteExpired(ctx context.Context, at time.Time) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Where("expires_at <= ?", at).Delete(&idempotencyRecord{})
	if res.Error != nil {
		return 0, platformpostgres.ClassifyError(res.Error)
	}
	return res.RowsAffected, nil
}

func (s *IdempotencyStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres idempotency store not configured")
	}
	return nil
}

func fromPort(record ports.IdempotencyRecord) idempotencyRecord {
	return idempotencyRecord{
		OrderID:     record.OrderID,
		Key:         record.Key,
		RequestHash: record.RequestHash,
		CreatedAt:   record.CreatedAt.UTC(),
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
}

func (r *idempotencyRecord) toPort() *ports.IdempotencyRecord {
	return &ports.IdempotencyRecord{
		OrderID:     r.OrderID,
		Key:         r.Key,
		RequestHash: r.RequestHash,
		CreatedAt:   r.CreatedAt.UTC(),
		ExpiresAt:   r.ExpiresAt.UTC(),
	}
}
