// Package notifications fans revalidation events out to connected listing pages.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"brokerage/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// RevalidateChannel is the Redis channel carrying revalidation events.
const RevalidateChannel = "revalidate"

// Event tells clients which cached pages are stale after a mutation.
type Event struct {
	Entity string    `json:"entity"`
	Paths  []string  `json:"paths"`
	At     time.Time `json:"at"`
}

// Notifier publishes and consumes revalidation events over Redis pub/sub.
// A nil Redis client turns every call into a no-op.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishRevalidate publishes ev on RevalidateChannel.
func (n *Notifier) PublishRevalidate(ctx context.Context, ev Event) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal revalidate event: %w", err)
	}
	return n.rdb.Publish(ctx, RevalidateChannel, payload).Err()
}

// Subscribe delivers raw revalidation payloads to onMessage until ctx is done.
// It returns once the subscription is confirmed by Redis.
func (n *Notifier) Subscribe(ctx context.Context, onMessage func(payload string)) error {
	if n == nil || n.rdb == nil {
		return nil
	}

	sub := n.rdb.Subscribe(ctx, RevalidateChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", RevalidateChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in revalidate subscriber",
								slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}
