// Package repository provides the GORM data access layer, one repository per collection.
package repository

import (
	"context"

	"brokerage/internal/cache"
	"brokerage/internal/models"

	"gorm.io/gorm"
)

// PropertyQuery holds the filters evaluated by the database. Text, status and
// price filtering happen in the listing package.
type PropertyQuery struct {
	FeaturedOnly bool
	MinBeds      int
	Limit        int
}

// PropertyRepository defines the interface for property data operations
type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error
	GetByID(ctx context.Context, id uint) (*models.Property, error)
	List(ctx context.Context, q PropertyQuery) ([]models.Property, error)
	ListAll(ctx context.Context) ([]models.Property, error)
	Update(ctx context.Context, p *models.Property, columns []string) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(ctx context.Context, p *models.Property) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *propertyRepository) GetByID(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	err := cache.Aside(ctx, cache.PropertyKey(id), &p, cache.PropertyTTL, func() error {
		return r.db.WithContext(ctx).First(&p, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns properties newest first, narrowed by q.
func (r *propertyRepository) List(ctx context.Context, q PropertyQuery) ([]models.Property, error) {
	props := []models.Property{}
	err := cache.Aside(ctx, cache.PropertyListKey(q.FeaturedOnly, q.MinBeds, q.Limit), &props, cache.ListTTL, func() error {
		tx := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
		if q.FeaturedOnly {
			tx = tx.Where("featured = ?", true)
		}
		if q.MinBeds > 0 {
			tx = tx.Where("beds >= ?", q.MinBeds)
		}
		if q.Limit > 0 {
			tx = tx.Limit(q.Limit)
		}
		return tx.Find(&props).Error
	})
	if err != nil {
		return nil, err
	}
	return props, nil
}

// ListAll returns every property, newest first, bypassing the cache.
func (r *propertyRepository) ListAll(ctx context.Context) ([]models.Property, error) {
	props := []models.Property{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&props).Error; err != nil {
		return nil, err
	}
	return props, nil
}

// Update writes only the named columns of p.
func (r *propertyRepository) Update(ctx context.Context, p *models.Property, columns []string) error {
	return updateColumns(ctx, r.db, p, columns)
}

func (r *propertyRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &models.Property{}, id)
}

func (r *propertyRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Property{}).Count(&n).Error
	return n, err
}
