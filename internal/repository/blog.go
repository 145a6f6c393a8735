package repository

import (
	"context"

	"brokerage/internal/cache"
	"brokerage/internal/models"

	"gorm.io/gorm"
)

// BlogRepository defines the interface for blog post data operations
type BlogRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetByID(ctx context.Context, id uint) (*models.BlogPost, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	ListPublished(ctx context.Context, category string, limit int) ([]models.BlogPost, error)
	ListAll(ctx context.Context) ([]models.BlogPost, error)
	Update(ctx context.Context, post *models.BlogPost, columns []string) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog post repository
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *blogRepository) GetByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPublishedBySlug returns the most recently published post with slug.
// Slugs are not unique, so the newest publication wins.
func (r *blogRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := cache.Aside(ctx, cache.BlogSlugKey(slug), &post, cache.BlogTTL, func() error {
		return r.db.WithContext(ctx).
			Where("slug = ? AND published = ?", slug, true).
			Order("published_at DESC").
			First(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPublished returns published posts, most recent publication first.
func (r *blogRepository) ListPublished(ctx context.Context, category string, limit int) ([]models.BlogPost, error) {
	posts := []models.BlogPost{}
	err := cache.Aside(ctx, cache.BlogListKey(category, limit), &posts, cache.ListTTL, func() error {
		tx := r.db.WithContext(ctx).
			Where("published = ?", true).
			Order("published_at DESC").
			Order("id DESC")
		if category != "" {
			tx = tx.Where("category = ?", category)
		}
		if limit > 0 {
			tx = tx.Limit(limit)
		}
		return tx.Find(&posts).Error
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ListAll returns every post including drafts, newest first.
func (r *blogRepository) ListAll(ctx context.Context) ([]models.BlogPost, error) {
	posts := []models.BlogPost{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *blogRepository) Update(ctx context.Context, post *models.BlogPost, columns []string) error {
	return updateColumns(ctx, r.db, post, columns)
}

func (r *blogRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &models.BlogPost{}, id)
}

func (r *blogRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.BlogPost{}).Count(&n).Error
	return n, err
}
