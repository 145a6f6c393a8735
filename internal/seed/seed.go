package seed

import (
	"context"
	"fmt"
	"log/slog"

	"brokerage/internal/middleware"
	"brokerage/internal/models"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	Properties  int
	Leads       int
	Posts       int
	Subscribers int
	Messages    int
	// DryRun builds everything but writes nothing.
	DryRun bool
}

// DefaultOptions is a small but complete demo data set.
var DefaultOptions = Options{
	Properties:  24,
	Leads:       40,
	Posts:       12,
	Subscribers: 60,
	Messages:    15,
}

// Summary reports how many rows a run created.
type Summary struct {
	Properties  int
	Leads       int
	Posts       int
	Subscribers int
	Messages    int
}

const batchSize = 100

// Seeder persists Factory output.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder writing to db.
func NewSeeder(db *gorm.DB, factory *Factory) *Seeder {
	return &Seeder{db: db, factory: factory}
}

// ClearAll removes every seeded row. Admin accounts are kept.
func (s *Seeder) ClearAll(ctx context.Context) error {
	tables := []interface{}{
		&models.Property{},
		&models.Lead{},
		&models.BlogPost{},
		&models.NewsletterSubscriber{},
		&models.ContactMessage{},
	}
	db := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, t := range tables {
		if err := db.Delete(t).Error; err != nil {
			return fmt.Errorf("clear %T: %w", t, err)
		}
	}
	middleware.Logger.InfoContext(ctx, "Cleared seeded tables")
	return nil
}

// Run builds and stores the data described by opts.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary

	props := make([]*models.Property, 0, opts.Properties)
	for i := 0; i < opts.Properties; i++ {
		props = append(props, s.factory.Property())
	}
	if err := s.insert(ctx, "properties", &props, len(props), opts.DryRun); err != nil {
		return sum, err
	}
	sum.Properties = len(props)

	leads := make([]*models.Lead, 0, opts.Leads)
	for i := 0; i < opts.Leads; i++ {
		leads = append(leads, s.factory.Lead())
	}
	if err := s.insert(ctx, "leads", &leads, len(leads), opts.DryRun); err != nil {
		return sum, err
	}
	sum.Leads = len(leads)

	posts := make([]*models.BlogPost, 0, opts.Posts)
	for i := 0; i < opts.Posts; i++ {
		posts = append(posts, s.factory.BlogPost())
	}
	if err := s.insert(ctx, "blog posts", &posts, len(posts), opts.DryRun); err != nil {
		return sum, err
	}
	sum.Posts = len(posts)

	subs := make([]*models.NewsletterSubscriber, 0, opts.Subscribers)
	for i := 0; i < opts.Subscribers; i++ {
		subs = append(subs, s.factory.Subscriber())
	}
	if err := s.insert(ctx, "subscribers", &subs, len(subs), opts.DryRun); err != nil {
		return sum, err
	}
	sum.Subscribers = len(subs)

	msgs := make([]*models.ContactMessage, 0, opts.Messages)
	for i := 0; i < opts.Messages; i++ {
		msgs = append(msgs, s.factory.ContactMessage())
	}
	if err := s.insert(ctx, "contact messages", &msgs, len(msgs), opts.DryRun); err != nil {
		return sum, err
	}
	sum.Messages = len(msgs)

	return sum, nil
}

func (s *Seeder) insert(ctx context.Context, label string, rows interface{}, n int, dryRun bool) error {
	if n == 0 {
		return nil
	}
	if dryRun {
		middleware.Logger.InfoContext(ctx, "[dry-run] skipping insert", slog.String("table", label), slog.Int("rows", n))
		return nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(rows, batchSize).Error; err != nil {
		return fmt.Errorf("seed %s: %w", label, err)
	}
	middleware.Logger.InfoContext(ctx, "Seeded rows", slog.String("table", label), slog.Int("rows", n))
	return nil
}
