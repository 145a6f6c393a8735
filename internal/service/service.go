// Package service holds the mutation actions and helpers behind the admin and public APIs.
package service

import (
	"context"
	"errors"
	"log/slog"

	"brokerage/internal/middleware"
	"brokerage/internal/models"
	"brokerage/internal/observability"
	"brokerage/internal/validation"

	"gorm.io/gorm"
)

// Entity names used for cache keys, revalidation events and metrics.
const (
	EntityProperty   = "property"
	EntityLead       = "lead"
	EntityBlog       = "blog"
	EntityContact    = "contact"
	EntitySubscriber = "subscriber"
	EntityUpload     = "upload"
	EntityNewsletter = "newsletter"
)

// Operation names used in logs and metrics.
const (
	OpCreate    = "create"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpSubscribe = "subscribe"
	OpBroadcast = "broadcast"
	OpUpload    = "upload"
)

// observe starts a span for a write and returns a func that ends it, records the
// mutation metric and logs the failure, if any.
func observe(ctx context.Context, entity, op string) (context.Context, func(error)) {
	ctx, span := observability.StartMutationSpan(ctx, entity, op)
	return ctx, func(err error) {
		observability.EndSpan(span, err)
		observability.RecordMutation(entity, op, err)
		if err != nil {
			logFailure(ctx, entity, op, err)
		}
	}
}

func logFailure(ctx context.Context, entity, op string, err error) {
	attrs := []any{
		slog.String("entity", entity),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code != models.CodeInternal {
		middleware.Logger.WarnContext(ctx, "mutation rejected", attrs...)
		return
	}
	middleware.Logger.ErrorContext(ctx, "mutation failed", attrs...)
}

// validate runs the struct tags on in and merges extra domain field errors.
func validate(in interface{}, extra map[string]string) error {
	fields, err := validation.Struct(in)
	if err != nil {
		return models.NewInternalError(err)
	}
	for k, v := range extra {
		if fields == nil {
			fields = make(map[string]string, len(extra))
		}
		if _, exists := fields[k]; !exists {
			fields[k] = v
		}
	}
	if len(fields) > 0 {
		return models.NewFieldValidationError(fields)
	}
	return nil
}

// repoError converts a repository error into the AppError taxonomy.
func repoError(err error, resource string, id interface{}) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}
