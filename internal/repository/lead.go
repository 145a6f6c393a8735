package repository

import (
	"context"

	"brokerage/internal/models"

	"gorm.io/gorm"
)

// LeadRepository defines the interface for lead data operations
type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id uint) (*models.Lead, error)
	List(ctx context.Context, status string) ([]models.Lead, error)
	Update(ctx context.Context, lead *models.Lead, columns []string) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *leadRepository) GetByID(ctx context.Context, id uint) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.WithContext(ctx).First(&lead, id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// List returns leads newest first. An empty status returns every lead.
func (r *leadRepository) List(ctx context.Context, status string) ([]models.Lead, error) {
	leads := []models.Lead{}
	tx := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	if err := tx.Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *leadRepository) Update(ctx context.Context, lead *models.Lead, columns []string) error {
	return updateColumns(ctx, r.db, lead, columns)
}

func (r *leadRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &models.Lead{}, id)
}

func (r *leadRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Lead{}).Count(&n).Error
	return n, err
}

// CountByStatus returns the number of leads per status. Every known status is present.
func (r *leadRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Lead{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(models.LeadStatuses))
	for _, s := range models.LeadStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
