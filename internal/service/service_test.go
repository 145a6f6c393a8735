package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"brokerage/internal/models"
	"brokerage/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertAppError asserts that err is an AppError with code and returns it.
func assertAppError(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

// assertValidationError asserts a VALIDATION_ERROR carrying every named field.
func assertValidationError(t *testing.T, err error, fields ...string) {
	t.Helper()
	appErr := assertAppError(t, err, models.CodeValidation)
	for _, f := range fields {
		assert.Contains(t, appErr.Fields, f, "missing field error for %s", f)
	}
}

func ptr[T any](v T) *T {
	return &v
}

// fixedClock returns a clock that reports *now and can be moved by the test.
func fixedClock(now *time.Time) func() time.Time {
	return func() time.Time { return *now }
}

func TestRevalidatorNilIsNoop(t *testing.T) {
	var r *Revalidator
	assert.NotPanics(t, func() {
		r.Invalidate(context.Background(), EntityProperty, PropertyPaths(1))
	})
}

func TestRevalidatorPublishesPaths(t *testing.T) {
	pub := &testutil.PublisherStub{}
	r := NewRevalidator(pub)
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	r.now = fixedClock(&at)

	r.Invalidate(context.Background(), EntityBlog, BlogPaths("old-title", "new-title", "new-title"))

	ev, ok := pub.Last()
	require.True(t, ok)
	assert.Equal(t, EntityBlog, ev.Entity)
	assert.Equal(t, []string{"/blog", "/blog/old-title", "/blog/new-title", "/admin/blog"}, ev.Paths)
	assert.Equal(t, at, ev.At)
}

func TestRevalidatorPublishFailureDoesNotPanic(t *testing.T) {
	pub := &testutil.PublisherStub{Err: errors.New("redis down")}
	r := NewRevalidator(pub)

	r.Invalidate(context.Background(), EntityLead, LeadPaths())
	assert.Len(t, pub.Events, 1)
}

func TestEntityPaths(t *testing.T) {
	assert.Equal(t, []string{"/", "/properties", "/properties/42", "/admin/properties"}, PropertyPaths(42))
	assert.Equal(t, []string{"/admin/leads", "/admin"}, LeadPaths())
	assert.Equal(t, []string{"/blog", "/admin/blog"}, BlogPaths(""))
}

func TestRepoErrorMapping(t *testing.T) {
	assert.NoError(t, repoError(nil, "Property", 1))

	notFound := repoError(testutilNotFound(), "Property", 9)
	appErr := assertAppError(t, notFound, models.CodeNotFound)
	assert.Equal(t, "Property with ID 9 not found", appErr.Message)

	internal := repoError(errors.New("connection reset"), "Property", 9)
	appErr = assertAppError(t, internal, models.CodeInternal)
	assert.EqualError(t, appErr.Err, "connection reset")

	passthrough := models.NewValidationError("bad")
	assert.Same(t, passthrough, repoError(passthrough, "Property", 9))
}

func testutilNotFound() error {
	_, err := testutil.NewPropertyRepoStub().GetByID(context.Background(), 1)
	return err
}
