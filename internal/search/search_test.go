package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"brokerage/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sourceStub struct {
	calls int
	props []models.Property
	err   error
}

func (s *sourceStub) ListAll(_ context.Context) ([]models.Property, error) {
	s.calls++
	return s.props, s.err
}

func TestNewIndexerWithoutHostIsDisabled(t *testing.T) {
	idx := NewIndexer("", "key")
	assert.Nil(t, idx)
	assert.False(t, idx.Enabled())

	ctx := context.Background()
	assert.NoError(t, idx.InitIndex())
	assert.NoError(t, idx.Upsert(ctx, models.Property{ID: 1}))
	assert.NoError(t, idx.Delete(ctx, 1))
	assert.NoError(t, idx.Reindex(ctx, []models.Property{{ID: 1}}))

	_, err := idx.Search(ctx, "lekki", 10)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNewIndexerWithHostIsEnabled(t *testing.T) {
	idx := NewIndexer("http://127.0.0.1:7700", "")
	require.NotNil(t, idx)
	assert.True(t, idx.Enabled())
	assert.Equal(t, PropertyIndex, idx.index)
}

func TestNewDocument(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := NewDocument(models.Property{
		ID:        7,
		Name:      "Ocean View Villa",
		Address:   "12 Admiralty Way, Lekki",
		Price:     450000,
		Currency:  models.CurrencyUSD,
		Status:    models.PropertyStatusForSale,
		Beds:      4,
		Baths:     3.5,
		Featured:  true,
		CreatedAt: created,
	})

	assert.Equal(t, uint(7), doc.ID)
	assert.Equal(t, "Ocean View Villa", doc.Name)
	assert.Equal(t, 3.5, doc.Baths)
	assert.True(t, doc.Featured)
	assert.Equal(t, created.Unix(), doc.Created)
	assert.NotNil(t, doc.Tags)
	assert.Empty(t, doc.Tags)
}

func TestHitIDs(t *testing.T) {
	hits := []interface{}{
		map[string]interface{}{"id": float64(3)},
		map[string]interface{}{"id": "11"},
		map[string]interface{}{"id": "not-a-number"},
		map[string]interface{}{"name": "missing id"},
		"garbage",
		map[string]interface{}{"id": float64(5)},
	}
	assert.Equal(t, []uint{3, 11, 5}, hitIDs(hits))
	assert.Empty(t, hitIDs(nil))
}

func TestSchedulerDisabledDoesNotStart(t *testing.T) {
	src := &sourceStub{}
	s := NewScheduler(nil, src)

	require.NoError(t, s.Start("@every 1s"))
	assert.False(t, s.isRunning)
	s.Stop()
	assert.Zero(t, src.calls)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler(NewIndexer("http://127.0.0.1:7700", ""), &sourceStub{})
	assert.Error(t, s.Start("not a cron spec"))
	assert.False(t, s.isRunning)
}

func TestSchedulerRunNowPropagatesSourceError(t *testing.T) {
	src := &sourceStub{err: errors.New("db down")}
	s := NewScheduler(nil, src)

	err := s.RunNow(context.Background())
	assert.EqualError(t, err, "db down")
	assert.Equal(t, 1, src.calls)
}

func TestSchedulerRunNowWithDisabledIndexer(t *testing.T) {
	src := &sourceStub{props: []models.Property{{ID: 1}, {ID: 2}}}
	s := NewScheduler(nil, src)

	assert.NoError(t, s.RunNow(context.Background()))
	assert.Equal(t, 1, src.calls)
}
