package search

import (
	"context"
	"sync"
	"time"

	"brokerage/internal/middleware"
	"brokerage/internal/models"

	"github.com/robfig/cron/v3"
)

// PropertySource loads every property for a full reindex.
type PropertySource interface {
	ListAll(ctx context.Context) ([]models.Property, error)
}

// Scheduler periodically rebuilds the property index from the database.
type Scheduler struct {
	cron    *cron.Cron
	indexer *Indexer
	source  PropertySource
	timeout time.Duration

	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a reindex scheduler. It never runs anything until Start.
func NewScheduler(indexer *Indexer, source PropertySource) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		indexer: indexer,
		source:  source,
		timeout: 5 * time.Minute,
	}
}

// Start registers the reindex job on spec and starts the cron loop.
// It is a no-op when search is disabled or spec is empty.
func (s *Scheduler) Start(spec string) error {
	if !s.indexer.Enabled() || spec == "" {
		middleware.Logger.Info("Search reindex scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(spec, func() {
		if err := s.RunNow(context.Background()); err != nil {
			middleware.Logger.Error("Scheduled search reindex failed", "error", err)
		}
	}); err != nil {
		return err
	}

	s.mu.Lock()
	s.cron.Start()
	s.isRunning = true
	s.mu.Unlock()

	middleware.Logger.Info("Search reindex scheduler started", "schedule", spec)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	middleware.Logger.Info("Search reindex scheduler stopped")
}

// RunNow rebuilds the index immediately.
func (s *Scheduler) RunNow(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	props, err := s.source.ListAll(ctx)
	if err != nil {
		return err
	}
	return s.indexer.Reindex(ctx, props)
}
