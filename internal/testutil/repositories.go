// Package testutil provides shared in-memory test doubles for the brokerage backend.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"brokerage/internal/models"
	"brokerage/internal/repository"

	"gorm.io/gorm"
)

// PropertyRepoStub is an in-memory repository.PropertyRepository.
// Setting Err makes every call fail with it.
type PropertyRepoStub struct {
	mu     sync.Mutex
	items  map[uint]models.Property
	nextID uint
	Err    error
}

// NewPropertyRepoStub creates an empty property store.
func NewPropertyRepoStub() *PropertyRepoStub {
	return &PropertyRepoStub{items: make(map[uint]models.Property), nextID: 1}
}

func (s *PropertyRepoStub) Create(_ context.Context, p *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	p.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	s.items[p.ID] = *p
	return nil
}

func (s *PropertyRepoStub) GetByID(_ context.Context, id uint) (*models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (s *PropertyRepoStub) List(_ context.Context, q repository.PropertyQuery) ([]models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.Property{}
	for _, p := range s.sortedLocked() {
		if q.FeaturedOnly && !p.Featured {
			continue
		}
		if q.MinBeds > 0 && p.Beds < q.MinBeds {
			continue
		}
		out = append(out, p)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (s *PropertyRepoStub) ListAll(ctx context.Context) ([]models.Property, error) {
	return s.List(ctx, repository.PropertyQuery{})
}

func (s *PropertyRepoStub) Update(_ context.Context, p *models.Property, _ []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.items[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	s.items[p.ID] = *p
	return nil
}

func (s *PropertyRepoStub) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *PropertyRepoStub) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), s.Err
}

// sortedLocked returns items newest first (highest id first).
func (s *PropertyRepoStub) sortedLocked() []models.Property {
	out := make([]models.Property, 0, len(s.items))
	for _, p := range s.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// LeadRepoStub is an in-memory repository.LeadRepository.
type LeadRepoStub struct {
	mu     sync.Mutex
	items  map[uint]models.Lead
	nextID uint
	Err    error
}

func NewLeadRepoStub() *LeadRepoStub {
	return &LeadRepoStub{items: make(map[uint]models.Lead), nextID: 1}
}

func (s *LeadRepoStub) Create(_ context.Context, lead *models.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	lead.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	lead.CreatedAt, lead.UpdatedAt = now, now
	s.items[lead.ID] = *lead
	return nil
}

func (s *LeadRepoStub) GetByID(_ context.Context, id uint) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	lead, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &lead, nil
}

func (s *LeadRepoStub) List(_ context.Context, status string) ([]models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.Lead{}
	for _, lead := range s.items {
		if status == "" || lead.Status == status {
			out = append(out, lead)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *LeadRepoStub) Update(_ context.Context, lead *models.Lead, _ []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.items[lead.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	lead.UpdatedAt = time.Now().UTC()
	s.items[lead.ID] = *lead
	return nil
}

func (s *LeadRepoStub) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *LeadRepoStub) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), s.Err
}

func (s *LeadRepoStub) CountByStatus(_ context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	counts := make(map[string]int64, len(models.LeadStatuses))
	for _, st := range models.LeadStatuses {
		counts[st] = 0
	}
	for _, lead := range s.items {
		counts[lead.Status]++
	}
	return counts, nil
}

// BlogRepoStub is an in-memory repository.BlogRepository.
type BlogRepoStub struct {
	mu     sync.Mutex
	items  map[uint]models.BlogPost
	nextID uint
	Err    error
}

func NewBlogRepoStub() *BlogRepoStub {
	return &BlogRepoStub{items: make(map[uint]models.BlogPost), nextID: 1}
}

func (s *BlogRepoStub) Create(_ context.Context, post *models.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	post.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	post.CreatedAt, post.UpdatedAt = now, now
	s.items[post.ID] = *post
	return nil
}

func (s *BlogRepoStub) GetByID(_ context.Context, id uint) (*models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	post, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &post, nil
}

func (s *BlogRepoStub) GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	posts, err := s.ListPublished(ctx, "", 0)
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		if post.Slug == slug {
			p := post
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *BlogRepoStub) ListPublished(_ context.Context, category string, limit int) ([]models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.BlogPost{}
	for _, post := range s.sortedLocked() {
		if !post.Published || (category != "" && !strings.EqualFold(post.Category, category)) {
			continue
		}
		out = append(out, post)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *BlogRepoStub) ListAll(_ context.Context) ([]models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.sortedLocked(), nil
}

func (s *BlogRepoStub) Update(_ context.Context, post *models.BlogPost, _ []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.items[post.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	post.UpdatedAt = time.Now().UTC()
	s.items[post.ID] = *post
	return nil
}

func (s *BlogRepoStub) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *BlogRepoStub) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), s.Err
}

func (s *BlogRepoStub) sortedLocked() []models.BlogPost {
	out := make([]models.BlogPost, 0, len(s.items))
	for _, post := range s.items {
		out = append(out, post)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// SubscriberRepoStub is an in-memory repository.SubscriberRepository.
type SubscriberRepoStub struct {
	mu    sync.Mutex
	items []models.NewsletterSubscriber
	Err   error
}

func NewSubscriberRepoStub(emails ...string) *SubscriberRepoStub {
	s := &SubscriberRepoStub{}
	for _, e := range emails {
		_, _ = s.Subscribe(context.Background(), e)
	}
	return s
}

func (s *SubscriberRepoStub) Subscribe(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for _, sub := range s.items {
		if sub.Email == email {
			return false, nil
		}
	}
	s.items = append(s.items, models.NewsletterSubscriber{
		ID:        uint(len(s.items) + 1),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	})
	return true, nil
}

func (s *SubscriberRepoStub) List(_ context.Context) ([]models.NewsletterSubscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]models.NewsletterSubscriber{}, s.items...), nil
}

func (s *SubscriberRepoStub) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), s.Err
}

// ContactRepoStub is an in-memory repository.ContactRepository.
type ContactRepoStub struct {
	mu    sync.Mutex
	items []models.ContactMessage
	Err   error
}

func NewContactRepoStub() *ContactRepoStub {
	return &ContactRepoStub{}
}

func (s *ContactRepoStub) Create(_ context.Context, msg *models.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	msg.ID = uint(len(s.items) + 1)
	msg.CreatedAt = time.Now().UTC()
	s.items = append(s.items, *msg)
	return nil
}

func (s *ContactRepoStub) List(_ context.Context, limit int) ([]models.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.ContactMessage{}
	for i := len(s.items) - 1; i >= 0; i-- {
		out = append(out, s.items[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *ContactRepoStub) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), s.Err
}

// AdminRepoStub is an in-memory repository.AdminRepository.
type AdminRepoStub struct {
	mu    sync.Mutex
	items []models.AdminUser
	Err   error
}

func NewAdminRepoStub() *AdminRepoStub {
	return &AdminRepoStub{}
}

func (s *AdminRepoStub) Create(_ context.Context, admin *models.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	admin.ID = uint(len(s.items) + 1)
	now := time.Now().UTC()
	admin.CreatedAt, admin.UpdatedAt = now, now
	s.items = append(s.items, *admin)
	return nil
}

func (s *AdminRepoStub) GetByID(_ context.Context, id uint) (*models.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, a := range s.items {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *AdminRepoStub) GetByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range s.items {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *AdminRepoStub) UpdatePassword(_ context.Context, id uint, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].PasswordHash = hash
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *AdminRepoStub) List(_ context.Context) ([]models.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]models.AdminUser{}, s.items...), nil
}

var (
	_ repository.PropertyRepository   = (*PropertyRepoStub)(nil)
	_ repository.LeadRepository       = (*LeadRepoStub)(nil)
	_ repository.BlogRepository       = (*BlogRepoStub)(nil)
	_ repository.SubscriberRepository = (*SubscriberRepoStub)(nil)
	_ repository.ContactRepository    = (*ContactRepoStub)(nil)
	_ repository.AdminRepository      = (*AdminRepoStub)(nil)
)
