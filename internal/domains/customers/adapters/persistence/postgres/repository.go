package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-console/internal/domains/customers/domain"
	"github.com/Apurer/storefront-console/internal/domains/customers/ports"
	platformpostgres "github.com/Apurer/storefront-console/internal/platform/postgres"
	"github.com/Apurer/storefront-console/internal/shared/faults"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists customers in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type customerRecord struct {
	ID             string    `gorm:"primaryKey;column:id;type:uuid"`
	CustomerNumber string    `gorm:"column:customer_number;size:32;uniqueIndex"`
	FirstName      string    `gorm:"column:first_name"`
	LastName       string    `gorm:"column:last_name"`
	Email          string    `gorm:"column:email;uniqueIndex"`
	Phone          string    `gorm:"column:phone"`
	Address        string    `gorm:"column:address"`
	PostalCode     string    `gorm:"column:postal_code;size:16"`
	City           string    `gorm:"column:city"`
	Role           string    `gorm:"column:role;size:16"`
	PasswordHash   string    `gorm:"column:password_hash"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }

// Migrate creates or updates the customers table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&customerRecord{})
}

// Save upserts the customer keyed by id.
func (r *Repository) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(customer)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"customer_number", "first_name", "last_name", "email", "phone", "address",
				"postal_code", "city", "role", "password_hash", "updated_at",
			}),
		}).
		Create(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateCustomer
		}
		return nil, platformpostgres.ClassifyError(err)
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return r.first(ctx, "id = ?", strings.TrimSpace(id))
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *Repository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var records []customerRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, platformpostgres.ClassifyError(err)
	}
	return toDomainList(records), nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&customerRecord{}, "id = ?", id)
	if result.Error != nil {
		return platformpostgres.ClassifyError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []customerRecord
	if err := r.db.WithContext(ctx).Order("customer_number").Find(&records).Error; err != nil {
		return nil, platformpostgres.ClassifyError(err)
	}
	return toDomainList(records), nil
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record customerRecord
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
		return errors.New("postgres customer repository not configured")
	}
	return nil
}

func toRecord(c *domain.Customer) customerRecord {
	return customerRecord{
		ID:             c.ID,
		CustomerNumber: c.CustomerNumber,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		PostalCode:     c.PostalCode,
		City:           c.City,
		Role:           string(c.Role),
		PasswordHash:   c.PasswordHash,
		CreatedAt:      c.CreatedAt,
	}
}

func (r *customerRecord) toDomain() (*domain.Customer, error) {
	c := &domain.Customer{
		ID:             r.ID,
		CustomerNumber: r.CustomerNumber,
		Profile: domain.Profile{
			FirstName:  r.FirstName,
			LastName:   r.LastName,
			Email:      r.Email,
			Phone:      r.Phone,
			Address:    r.Address,
			PostalCode: r.PostalCode,
			City:       r.City,
		},
		Role:         domain.Role(r.Role),
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
	}
	if err := c.Validate(); err != nil {
		return nil, faults.Corrupt(fmt.Errorf("customer %s: %w", r.ID, err))
	}
	return c, nil
}

// toDomainList drops rows that no longer satisfy the customer invariants.
func toDomainList(records []customerRecord) []*domain.Customer {
	list := make([]*domain.Customer, 0, len(records))
	for i := range records {
		c, err := records[i].toDomain()
		if err != nil {
			continue
		}
		list = append(list, c)
	}
	return list
}
