package repository

import (
	"context"

	"brokerage/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriberRepository defines the interface for newsletter subscriber data operations
type SubscriberRepository interface {
	// Subscribe stores email and reports whether it was new.
	Subscribe(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]models.NewsletterSubscriber, error)
	Count(ctx context.Context) (int64, error)
}

type subscriberRepository struct {
	db *gorm.DB
}

// NewSubscriberRepository creates a new subscriber repository
func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) Subscribe(ctx context.Context, email string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&models.NewsletterSubscriber{Email: email})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List returns subscribers in sign-up order.
func (r *subscriberRepository) List(ctx context.Context) ([]models.NewsletterSubscriber, error) {
	subs := []models.NewsletterSubscriber{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *subscriberRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.NewsletterSubscriber{}).Count(&n).Error
	return n, err
}
