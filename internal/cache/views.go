package cache

import (
	"context"
	"fmt"
	"time"
)

// Cached view key layout. Every key of an entity shares the views:<entity>: prefix
// so a single mutation can drop all of them.
const (
	ViewPrefix = "views:%s:"

	PropertyKeyFormat     = "views:property:%d"
	PropertyListKeyFormat = "views:property:list:featured=%t:beds=%d:limit=%d"
	BlogSlugKeyFormat     = "views:blog:slug:%s"
	BlogListKeyFormat     = "views:blog:list:category=%s:limit=%d"
)

const (
	PropertyTTL = 10 * time.Minute
	ListTTL     = 2 * time.Minute
	BlogTTL     = 15 * time.Minute
)

func PropertyKey(id uint) string {
	return fmt.Sprintf(PropertyKeyFormat, id)
}

func PropertyListKey(featuredOnly bool, minBeds, limit int) string {
	return fmt.Sprintf(PropertyListKeyFormat, featuredOnly, minBeds, limit)
}

func BlogSlugKey(slug string) string {
	return fmt.Sprintf(BlogSlugKeyFormat, slug)
}

func BlogListKey(category string, limit int) string {
	return fmt.Sprintf(BlogListKeyFormat, category, limit)
}

// EntityPrefix returns the key prefix shared by every cached view of entity.
func EntityPrefix(entity string) string {
	return fmt.Sprintf(ViewPrefix, entity)
}

// InvalidatePrefix deletes every key starting with prefix and returns how many were removed.
func InvalidatePrefix(ctx context.Context, prefix string) (int, error) {
	if client == nil {
		return 0, nil
	}

	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return removed, fmt.Errorf("scan %s*: %w", prefix, err)
		}
		if len(keys) > 0 {
			n, err := client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("delete %s*: %w", prefix, err)
			}
			removed += int(n)
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
