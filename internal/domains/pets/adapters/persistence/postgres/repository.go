package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-pet-api/internal/domains/pets/domain"
	"github.com/Apurer/go-gin-pet-api/internal/domains/pets/ports"
	"github.com/Apurer/go-gin-pet-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

const uniqueViolation = "23505"

// Repository persists pets in PostgreSQL using GORM. The schema is owned by the
// migrations package.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type petRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Name      string    `gorm:"column:name"`
	Type      string    `gorm:"column:type"`
	Color     string    `gorm:"column:color"`
	Price     int64     `gorm:"column:price"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (petRecord) TableName() string { return "pets" }

// Add inserts pet. The unique index on name turns a duplicate into ErrAlreadyExists.
func (r *Repository) Add(ctx context.Context, pet *domain.Pet) (*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, errors.New("pet is nil")
	}
	record := toRecord(pet)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ports.ErrAlreadyExists
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// GetByName fetches a pet by its exact, case-sensitive name.
func (r *Repository) GetByName(ctx context.Context, name string) (*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record petRecord
	if err := r.db.WithContext(ctx).Where("name = ?", name).Take(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// List returns every pet in insertion order.
func (r *Repository) List(ctx context.Context) ([]*projection.Projection[*domain.Pet], error) {
	return r.FindByFilter(ctx, domain.Filter{})
}

// FindByFilter pushes every set predicate into the WHERE clause.
func (r *Repository) FindByFilter(ctx context.Context, filter domain.Filter) ([]*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&petRecord{})
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Color != nil {
		query = query.Where("color = ?", *filter.Color)
	}
	if filter.PriceFrom != nil {
		query = query.Where("price >= ?", *filter.PriceFrom)
	}
	if filter.PriceTo != nil {
		query = query.Where("price <= ?", *filter.PriceTo)
	}
	var records []petRecord
	if err := query.Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	result := make([]*projection.Projection[*domain.Pet], 0, len(records))
	for i := range records {
		result = append(result, records[i].toProjection())
	}
	return result, nil
}

// ReplaceByName overwrites type, color and price of the named pet, keeping its
// row and therefore its listing position.
func (r *Repository) ReplaceByName(ctx context.Context, name string, pet *domain.Pet) (*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, errors.New("pet is nil")
	}
	var record petRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("name = ?", name).Take(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		record.Type = pet.Type
		record.Color = pet.Color
		record.Price = pet.Price
		return tx.Model(&record).Select("type", "color", "price", "updated_at").Updates(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return record.toProjection(), nil
}

// DeleteByName removes the named pet; a missing pet is not an error.
func (r *Repository) DeleteByName(ctx context.Context, name string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("name = ?", name).Delete(&petRecord{}).Error
}

// Clear removes every pet.
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&petRecord{}).Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres pet repository not configured")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func toRecord(pet *domain.Pet) petRecord {
	return petRecord{
		Name:  pet.Name,
		Type:  pet.Type,
		Color: pet.Color,
		Price: pet.Price,
	}
}

func (r petRecord) toProjection() *projection.Projection[*domain.Pet] {
	return projection.New(&domain.Pet{
		Name:  r.Name,
		Type:  r.Type,
		Color: r.Color,
		Price: r.Price,
	}, r.CreatedAt, r.UpdatedAt)
}
