package service

import (
	"context"

	"brokerage/internal/models"
	"brokerage/internal/repository"
)

// Stats summarizes the admin dashboard.
type Stats struct {
	Properties      int64            `json:"properties"`
	Leads           int64            `json:"leads"`
	LeadsByStatus   map[string]int64 `json:"leads_by_status"`
	BlogPosts       int64            `json:"blog_posts"`
	Subscribers     int64            `json:"subscribers"`
	ContactMessages int64            `json:"contact_messages"`
}

type StatsService struct {
	properties  repository.PropertyRepository
	leads       repository.LeadRepository
	posts       repository.BlogRepository
	subscribers repository.SubscriberRepository
	contacts    repository.ContactRepository
}

func NewStatsService(
	properties repository.PropertyRepository,
	leads repository.LeadRepository,
	posts repository.BlogRepository,
	subscribers repository.SubscriberRepository,
	contacts repository.ContactRepository,
) *StatsService {
	return &StatsService{
		properties:  properties,
		leads:       leads,
		posts:       posts,
		subscribers: subscribers,
		contacts:    contacts,
	}
}

func (s *StatsService) Get(ctx context.Context) (*Stats, error) {
	var (
		st  Stats
		err error
	)
	if st.Properties, err = s.properties.Count(ctx); err != nil {
		return nil, models.NewInternalError(err)
	}
	if st.Leads, err = s.leads.Count(ctx); err != nil {
		return nil, models.NewInternalError(err)
	}
	if st.LeadsByStatus, err = s.leads.CountByStatus(ctx); err != nil {
		return nil, models.NewInternalError(err)
	}
	if st.BlogPosts, err = s.posts.Count(ctx); err != nil {
		return nil, models.NewInternalError(err)
	}
	if st.Subscribers, err = s.subscribers.Count(ctx); err != nil {
		return nil, models.NewInternalError(err)
	}
	if st.ContactMessages, err = s.contacts.Count(ctx); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &st, nil
}
