package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-console/internal/domains/catalog/ports"
	platformpostgres "github.com/Apurer/storefront-console/internal/platform/postgres"
)

var _ ports.ObjectStore = (*ObjectStore)(nil)

// ObjectStore keeps product assets in a bytea table.
type ObjectStore struct {
	db      *gorm.DB
	baseURL string
}

// NewObjectStore wires a PostgreSQL-backed object store whose references start with baseURL.
func NewObjectStore(db *gorm.DB, baseURL string) *ObjectStore {
	return &ObjectStore{db: db, baseURL: baseURL}
}

type assetRecord struct {
	Path        string    `gorm:"primaryKey;column:path;size:512"`
	ContentType string    `gorm:"column:content_type;size:128"`
	Data        []byte    `gorm:"column:data;type:bytea"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (assetRecord) TableName() string { return "product_assets" }

// MigrateAssets creates or updates the product_assets table.
func MigrateAssets(db *gorm.DB) error {
	return db.AutoMigrate(&assetRecord{})
}

// Put upserts the object at path.
func (s *ObjectStore) Put(ctx context.Context, path, contentType string, data []byte) (string, error) {
	if err := s.ensureDB(); err != nil {
		return "", err
	}
	record := assetRecord{Path: path, ContentType: contentType, Data: data}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"content_type", "data", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return "", platformpostgres.ClassifyError(err)
	}
	return ports.PublicURL(s.baseURL, path), nil
}

func (s *ObjectStore) Get(ctx context.Context, path string) (*ports.Object, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record assetRecord
	if err := s.db.WithContext(ctx).First(&record, "path = ?", path).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrObjectNotFound
		}
		return nil, platformpostgres.ClassifyError(err)
	}
	return &ports.Object{Path: record.Path, ContentType: record.ContentType, Data: record.Data}, nil
}

func (s *ObjectStore) Delete(ctx context.Context, path string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Delete(&assetRecord{}, "path = ?", path)
	if result.Error != nil {
		return platformpostgres.ClassifyError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrObjectNotFound
	}
	return nil
}

func (s *ObjectStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres object store not configured")
	}
	return nil
}
