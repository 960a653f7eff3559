package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Apurer/storefront-console/internal/domains/orders/domain"
	"github.com/Apurer/storefront-console/internal/domains/orders/ports"
	platformpostgres "github.com/Apurer/storefront-console/internal/platform/postgres"
	"github.com/Apurer/storefront-console/internal/shared/faults"
	"github.com/Apurer/storefront-console/internal/shared/tax"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL. Line items live in a JSONB column.
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

func NewRepository(db *gorm.DB, opts ...Option) *Repository {
	r := &Repository{db: db, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type orderRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	InvoiceNumber   string          `gorm:"column:invoice_number;size:64;uniqueIndex"`
	CustomerRef     string          `gorm:"column:customer_ref;size:64;index"`
	Status          string          `gorm:"column:status;size:32"`
	LineItems       datatypes.JSON  `gorm:"column:line_items;type:jsonb"`
	ShippingAddress string          `gorm:"column:shipping_address;type:text"`
	ShippingMethod  string          `gorm:"column:shipping_method;size:64"`
	ShippingCost    decimal.Decimal `gorm:"column:shipping_cost;type:numeric"`
	TotalPrice      decimal.Decimal `gorm:"column:total_price;type:numeric"`
	CreatedAt       time.Time       `gorm:"column:created_at;index"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// lineItemRecord is the JSON shape of one frozen line item.
type lineItemRecord struct {
	ProductRef int64           `json:"productRef"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TaxClass   int             `json:"taxClass"`
	Quantity   int             `json:"quantity"`
}

// Migrate creates or updates the orders table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&orderRecord{})
}

// Save inserts new orders and rewrites the editable columns of existing ones.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record, err := toRecord(order)
	if err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)
	if record.ID == 0 {
		if err := db.Create(&record).Error; err != nil {
			return nil, translate(err)
		}
		return r.GetByID(ctx, record.ID)
	}
	result := db.Model(&orderRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"status":           record.Status,
		"line_items":       record.LineItems,
		"shipping_address": record.ShippingAddress,
		"shipping_method":  record.ShippingMethod,
		"shipping_cost":    record.ShippingCost,
		"total_price":      record.TotalPrice,
	})
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, platformpostgres.ClassifyError(err)
	}
	return record.toDomain()
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&orderRecord{}, id)
	if result.Error != nil {
		return platformpostgres.ClassifyError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns every decodable order by creation time then id. Corrupt rows are skipped and logged.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("created_at").Order("id").Find(&records).Error; err != nil {
		return nil, platformpostgres.ClassifyError(err)
	}
	list := make([]*domain.Order, 0, len(records))
	for i := range records {
		order, err := records[i].toDomain()
		if err != nil {
			r.logger.WarnContext(ctx, "skipping corrupt order record",
				slog.Int64("order.id", records[i].ID), slog.String("error", err.Error()))
			continue
		}
		list = append(list, order)
	}
	return list, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrDuplicateInvoiceNumber
	}
	return platformpostgres.ClassifyError(err)
}

func toRecord(o *domain.Order) (orderRecord, error) {
	items := make([]lineItemRecord, 0, len(o.LineItems))
	for _, item := range o.LineItems {
		items = append(items, lineItemRecord{
			ProductRef: item.ProductRef,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			TaxClass:   int(item.TaxClass),
			Quantity:   item.Quantity,
		})
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return orderRecord{}, fmt.Errorf("encode line items: %w", err)
	}
	return orderRecord{
		ID:              o.ID,
		InvoiceNumber:   o.InvoiceNumber,
		CustomerRef:     o.CustomerRef,
		Status:          string(o.Status),
		LineItems:       datatypes.JSON(payload),
		ShippingAddress: o.ShippingAddress,
		ShippingMethod:  o.ShippingMethod,
		ShippingCost:    o.ShippingCost,
		TotalPrice:      o.TotalPrice,
		CreatedAt:       o.CreatedAt,
	}, nil
}

// toDomain decodes strictly: unknown JSON fields, trailing data and broken invariants are all corrupt.
// An empty line list decodes so invoice generation can report it.
func (r *orderRecord) toDomain() (*domain.Order, error) {
	items, err := decodeLineItems(r.LineItems)
	if err != nil {
		return nil, faults.Corrupt(fmt.Errorf("order %d: %w", r.ID, err))
	}
	order := &domain.Order{
		ID:              r.ID,
		InvoiceNumber:   r.InvoiceNumber,
		CustomerRef:     r.CustomerRef,
		Status:          domain.Status(r.Status),
		CreatedAt:       r.CreatedAt.UTC(),
		LineItems:       items,
		ShippingAddress: r.ShippingAddress,
		ShippingMethod:  r.ShippingMethod,
		ShippingCost:    r.ShippingCost,
		TotalPrice:      r.TotalPrice,
	}
	if err := order.ValidateStored(); err != nil {
		return nil, faults.Corrupt(fmt.Errorf("order %d: %w", r.ID, err))
	}
	return order, nil
}

func decodeLineItems(raw []byte) ([]domain.LineItem, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	var records []lineItemRecord
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode line items: %w", err)
	}
	if decoder.More() {
		return nil, errors.New("decode line items: trailing data")
	}
	items := make([]domain.LineItem, 0, len(records))
	for i, rec := range records {
		class := tax.Class(rec.TaxClass)
		if !class.Valid() {
			return nil, fmt.Errorf("line item %d: %w", i, tax.ErrUnknownClass)
		}
		items = append(items, domain.LineItem{
			ProductRef: rec.ProductRef,
			Name:       rec.Name,
			UnitPrice:  rec.UnitPrice,
			TaxClass:   class,
			Quantity:   rec.Quantity,
		})
	}
	return items, nil
}
