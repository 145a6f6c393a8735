package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"brokerage/internal/cache"
	"brokerage/internal/middleware"
	"brokerage/internal/notifications"
)

// RevalidatePublisher broadcasts revalidation events to listening pages.
type RevalidatePublisher interface {
	PublishRevalidate(ctx context.Context, ev notifications.Event) error
}

// Revalidator drops cached views of an entity and announces the stale paths.
// A nil *Revalidator does nothing.
type Revalidator struct {
	publisher RevalidatePublisher
	now       func() time.Time
}

// NewRevalidator creates a Revalidator. publisher may be nil.
func NewRevalidator(publisher RevalidatePublisher) *Revalidator {
	return &Revalidator{publisher: publisher, now: time.Now}
}

// PropertyPaths lists the pages showing property id.
func PropertyPaths(id uint) []string {
	return []string{"/", "/properties", fmt.Sprintf("/properties/%d", id), "/admin/properties"}
}

// BlogPaths lists the pages showing the posts with the given slugs.
func BlogPaths(slugs ...string) []string {
	paths := []string{"/blog"}
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		paths = append(paths, "/blog/"+slug)
	}
	return append(paths, "/admin/blog")
}

// LeadPaths lists the admin pages showing leads.
func LeadPaths() []string {
	return []string{"/admin/leads", "/admin"}
}

// Invalidate deletes the views:<entity>:* cache keys and publishes paths on the
// revalidate channel. Failures are logged; the mutation already succeeded.
func (r *Revalidator) Invalidate(ctx context.Context, entity string, paths []string) {
	if r == nil {
		return
	}

	if n, err := cache.InvalidatePrefix(ctx, cache.EntityPrefix(entity)); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed",
			slog.String("entity", entity), slog.String("error", err.Error()))
	} else if n > 0 {
		middleware.Logger.DebugContext(ctx, "cache invalidated", slog.String("entity", entity), slog.Int("keys", n))
	}

	if r.publisher == nil {
		return
	}
	ev := notifications.Event{Entity: entity, Paths: paths, At: r.now().UTC()}
	if err := r.publisher.PublishRevalidate(ctx, ev); err != nil {
		middleware.Logger.WarnContext(ctx, "revalidate publish failed",
			slog.String("entity", entity), slog.String("error", err.Error()))
	}
}
