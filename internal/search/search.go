// Package search keeps an optional Meilisearch index of properties in sync with the database.
package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"brokerage/internal/middleware"
	"brokerage/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

// PropertyIndex is the Meilisearch index uid holding property documents.
const PropertyIndex = "properties"

// Document is the indexed projection of a property.
type Document struct {
	ID       uint     `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Price    float64  `json:"price"`
	Currency string   `json:"currency"`
	Status   string   `json:"status"`
	Beds     int      `json:"beds"`
	Baths    float64  `json:"baths"`
	Featured bool     `json:"featured"`
	Tags     []string `json:"tags"`
	Created  int64    `json:"created_at"`
}

// NewDocument projects p onto its search document.
func NewDocument(p models.Property) Document {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return Document{
		ID:       p.ID,
		Name:     p.Name,
		Address:  p.Address,
		Price:    p.Price,
		Currency: p.Currency,
		Status:   p.Status,
		Beds:     p.Beds,
		Baths:    p.Baths,
		Featured: p.Featured,
		Tags:     tags,
		Created:  p.CreatedAt.Unix(),
	}
}

// Indexer writes property documents to Meilisearch. A nil *Indexer is valid and
// turns every call into a no-op, which is how search runs when no host is configured.
type Indexer struct {
	client *meilisearch.Client
	index  string
}

// NewIndexer returns nil when host is empty.
func NewIndexer(host, apiKey string) *Indexer {
	if host == "" {
		return nil
	}
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})
	return &Indexer{client: client, index: PropertyIndex}
}

// Enabled reports whether documents are actually sent anywhere.
func (i *Indexer) Enabled() bool {
	return i != nil && i.client != nil
}

// InitIndex creates the index and configures its searchable, filterable and sortable attributes.
func (i *Indexer) InitIndex() error {
	if !i.Enabled() {
		return nil
	}

	_, err := i.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        i.index,
		PrimaryKey: "id",
	})
	// Meilisearch reports an existing index asynchronously; a synchronous error is a transport failure.
	if err != nil {
		return fmt.Errorf("create index %s: %w", i.index, err)
	}

	idx := i.client.Index(i.index)
	if _, err := idx.UpdateSearchableAttributes(&[]string{"name", "address", "tags"}); err != nil {
		return fmt.Errorf("searchable attributes: %w", err)
	}
	if _, err := idx.UpdateFilterableAttributes(&[]string{"status", "price", "beds", "featured"}); err != nil {
		return fmt.Errorf("filterable attributes: %w", err)
	}
	if _, err := idx.UpdateSortableAttributes(&[]string{"price", "created_at"}); err != nil {
		return fmt.Errorf("sortable attributes: %w", err)
	}
	return nil
}

// Upsert adds or replaces the document for p.
func (i *Indexer) Upsert(_ context.Context, p models.Property) error {
	if !i.Enabled() {
		return nil
	}
	_, err := i.client.Index(i.index).AddDocuments([]Document{NewDocument(p)}, "id")
	return err
}

// Delete removes the document for id.
func (i *Indexer) Delete(_ context.Context, id uint) error {
	if !i.Enabled() {
		return nil
	}
	_, err := i.client.Index(i.index).DeleteDocument(strconv.FormatUint(uint64(id), 10))
	return err
}

// Reindex replaces the whole index content with props.
func (i *Indexer) Reindex(_ context.Context, props []models.Property) error {
	if !i.Enabled() {
		return nil
	}
	idx := i.client.Index(i.index)
	if _, err := idx.DeleteAllDocuments(); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	if len(props) == 0 {
		return nil
	}
	docs := make([]Document, 0, len(props))
	for _, p := range props {
		docs = append(docs, NewDocument(p))
	}
	if _, err := idx.AddDocuments(docs, "id"); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	middleware.Logger.Info("Search index rebuilt", "documents", len(docs))
	return nil
}

// ErrDisabled is returned by Search when no Meilisearch host is configured.
var ErrDisabled = errors.New("search is not configured")

// Search returns the ids of matching properties in relevance order.
func (i *Indexer) Search(_ context.Context, query string, limit int64) ([]uint, error) {
	if !i.Enabled() {
		return nil, ErrDisabled
	}
	if limit <= 0 {
		limit = 20
	}
	res, err := i.client.Index(i.index).Search(query, &meilisearch.SearchRequest{
		Limit:                limit,
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, err
	}
	return hitIDs(res.Hits), nil
}

// hitIDs extracts numeric ids from raw hits, skipping malformed ones.
func hitIDs(hits []interface{}) []uint {
	ids := make([]uint, 0, len(hits))
	for _, hit := range hits {
		m, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		switch v := m["id"].(type) {
		case float64:
			if v > 0 {
				ids = append(ids, uint(v))
			}
		case string:
			if n, err := strconv.ParseUint(v, 10, 64); err == nil {
				ids = append(ids, uint(n))
			}
		}
	}
	return ids
}
