// Package notifications publishes domain events over Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"meetup/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// EventsChannel carries every domain event.
const EventsChannel = "meetup:events"

const (
	EventPostCreated    = "post.created"
	EventPostDeleted    = "post.deleted"
	EventCommentCreated = "comment.created"
	EventCommentDeleted = "comment.deleted"
	EventLikeCreated    = "like.created"
	EventLikeDeleted    = "like.deleted"
)

// Event is the JSON payload published on EventsChannel.
type Event struct {
	Type    string    `json:"type"`
	ID      uint      `json:"id,omitempty"`
	PostID  uint      `json:"postId,omitempty"`
	ActorID uint      `json:"actorId,omitempty"`
	At      time.Time `json:"at"`
}

// Notifier provides helpers to publish events into Redis channels
type Notifier struct {
	rdb  *redis.Client
	gate func(actorID uint) bool
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client turns every publish into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// WithGate restricts publishing to actors for which gate returns true.
func (n *Notifier) WithGate(gate func(actorID uint) bool) *Notifier {
	n.gate = gate
	return n
}

// Publish sends ev on EventsChannel, stamping At when unset.
func (n *Notifier) Publish(ctx context.Context, ev Event) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	if n.gate != nil && !n.gate(ev.ActorID) {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.rdb.Publish(ctx, EventsChannel, payload).Err()
}

// Subscribe delivers events from EventsChannel to onEvent until ctx ends.
// It returns once the subscription is confirmed.
func (n *Notifier) Subscribe(ctx context.Context, onEvent func(Event)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, EventsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", EventsChannel, err)
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
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					middleware.Logger.Warn("dropping malformed event", slog.String("error", err.Error()))
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in event subscriber",
								slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
						}
					}()
					onEvent(ev)
				}()
			}
		}
	}()

	return nil
}
