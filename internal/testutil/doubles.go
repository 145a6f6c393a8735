package testutil

import (
	"context"
	"io"
	"sync"

	"brokerage/internal/mailer"
	"brokerage/internal/models"
	"brokerage/internal/notifications"
	"brokerage/internal/storage"
)

// MailerStub records every message. FailFor decides per recipient whether Send fails.
type MailerStub struct {
	mu      sync.Mutex
	Sent    []mailer.Message
	FailFor func(to string) error
}

func (m *MailerStub) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	if m.FailFor != nil {
		return m.FailFor(msg.To)
	}
	return nil
}

// Recipients returns the addresses of every attempted message, in order.
func (m *MailerStub) Recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Sent))
	for _, msg := range m.Sent {
		out = append(out, msg.To)
	}
	return out
}

// StoredObject is an object captured by ObjectStoreStub.
type StoredObject struct {
	Bucket      string
	Key         string
	ContentType string
	Body        []byte
}

// ObjectStoreStub keeps written objects in memory and serves them under BaseURL.
type ObjectStoreStub struct {
	mu      sync.Mutex
	Objects []StoredObject
	BaseURL string
	Err     error
}

func (s *ObjectStoreStub) Put(_ context.Context, obj storage.Object) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	body, err := io.ReadAll(obj.Body)
	if err != nil {
		return "", err
	}
	s.Objects = append(s.Objects, StoredObject{
		Bucket:      obj.Bucket,
		Key:         obj.Key,
		ContentType: obj.ContentType,
		Body:        body,
	})
	base := s.BaseURL
	if base == "" {
		base = "/media"
	}
	return base + "/" + obj.Bucket + "/" + obj.Key, nil
}

func (s *ObjectStoreStub) Ping(_ context.Context) error {
	return s.Err
}

// PublisherStub captures revalidation events.
type PublisherStub struct {
	mu     sync.Mutex
	Events []notifications.Event
	Err    error
}

func (p *PublisherStub) PublishRevalidate(_ context.Context, ev notifications.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, ev)
	return p.Err
}

// Last returns the most recent event, or false when none was published.
func (p *PublisherStub) Last() (notifications.Event, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Events) == 0 {
		return notifications.Event{}, false
	}
	return p.Events[len(p.Events)-1], true
}

// IndexerStub records search index writes.
type IndexerStub struct {
	mu       sync.Mutex
	Upserted []uint
	Deleted  []uint
	Err      error
}

func (i *IndexerStub) Upsert(_ context.Context, p models.Property) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.Upserted = append(i.Upserted, p.ID)
	return i.Err
}

func (i *IndexerStub) Delete(_ context.Context, id uint) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.Deleted = append(i.Deleted, id)
	return i.Err
}
