package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-console/internal/domains/catalog/ports"
	platformpostgres "github.com/Apurer/storefront-console/internal/platform/postgres"
	"github.com/Apurer/storefront-console/internal/shared/faults"
	"github.com/Apurer/storefront-console/internal/shared/tax"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

type Option func(*Repository)

// WithLogger sets the logger used to report quarantined rows.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRepository wires a PostgreSQL-backed product repository. Schema is owned by platform/migrations.
func NewRepository(db *gorm.DB, opts ...Option) *Repository {
	r := &Repository{db: db, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type productRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	SKU         string          `gorm:"column:sku;size:128;uniqueIndex"`
	Name        string          `gorm:"column:name"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric"`
	Stock       int             `gorm:"column:stock"`
	TaxClass    int             `gorm:"column:tax_class"`
	Ingredients pq.StringArray  `gorm:"column:ingredients;type:text[]"`
	Categories  pq.StringArray  `gorm:"column:categories;type:text[]"`
	Description string          `gorm:"column:description;type:text"`
	ImagePaths  pq.StringArray  `gorm:"column:image_paths;type:text[]"`
	ImageURLs   pq.StringArray  `gorm:"column:image_urls;type:text[]"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Migrate creates or updates the products table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&productRecord{})
}

// NextID draws from the serial sequence backing products.id.
func (r *Repository) NextID(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var id int64
	if err := r.db.WithContext(ctx).Raw("SELECT nextval(pg_get_serial_sequence('products', 'id'))").Scan(&id).Error; err != nil {
		return 0, platformpostgres.ClassifyError(err)
	}
	return id, nil
}

// Save upserts the product keyed by id.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(product)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"sku", "name", "price", "stock", "tax_class", "ingredients", "categories",
				"description", "image_paths", "image_urls", "updated_at",
			}),
		}).
		Create(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateSKU
		}
		return nil, platformpostgres.ClassifyError(err)
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return r.first(ctx, "sku = ?", sku)
}

// Delete removes a product by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, id)
	if result.Error != nil {
		return platformpostgres.ClassifyError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns every decodable product ordered by id. Rows that fail decoding are skipped and logged.
func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, platformpostgres.ClassifyError(err)
	}
	list := make([]*domain.Product, 0, len(records))
	for i := range records {
		product, err := records[i].toDomain()
		if err != nil {
			r.logger.WarnContext(ctx, "skipping corrupt product record",
				slog.Int64("product.id", records[i].ID), slog.String("error", err.Error()))
			continue
		}
		list = append(list, product)
	}
	return list, nil
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, platformpostgres.ClassifyError(err)
	}
	return record.toDomain()
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toRecord(p *domain.Product) productRecord {
	record := productRecord{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Price:       p.Price,
		Stock:       p.Stock,
		TaxClass:    int(p.TaxClass),
		Ingredients: pq.StringArray(append([]string{}, p.Ingredients...)),
		Categories:  pq.StringArray(append([]string{}, p.Categories...)),
		Description: p.Description,
		ImagePaths:  pq.StringArray{},
		ImageURLs:   pq.StringArray{},
	}
	for _, image := range p.Images {
		record.ImagePaths = append(record.ImagePaths, image.Path)
		record.ImageURLs = append(record.ImageURLs, image.URL)
	}
	return record
}

// toDomain rebuilds the aggregate and re-checks its invariants.
func (r *productRecord) toDomain() (*domain.Product, error) {
	if len(r.ImagePaths) != len(r.ImageURLs) {
		return nil, faults.Corrupt(fmt.Errorf("product %d has %d image paths but %d urls", r.ID, len(r.ImagePaths), len(r.ImageURLs)))
	}
	product := &domain.Product{
		ID:          r.ID,
		SKU:         r.SKU,
		Name:        r.Name,
		Price:       r.Price,
		Stock:       r.Stock,
		TaxClass:    tax.Class(r.TaxClass),
		Ingredients: append([]string{}, r.Ingredients...),
		Categories:  append([]string{}, r.Categories...),
		Description: r.Description,
	}
	for i := range r.ImagePaths {
		product.Images = append(product.Images, domain.ImageRef{Path: r.ImagePaths[i], URL: r.ImageURLs[i]})
	}
	if err := product.Validate(); err != nil {
		return nil, faults.Corrupt(fmt.Errorf("product %d: %w", r.ID, err))
	}
	return product, nil
}
