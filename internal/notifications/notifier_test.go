package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.NoError(t, n.Publish(context.Background(), Event{Type: EventPostCreated, ID: 1}))
	assert.NoError(t, n.Subscribe(context.Background(), func(Event) {}))

	var nilNotifier *Notifier
	assert.NoError(t, nilNotifier.Publish(context.Background(), Event{Type: EventPostCreated}))
}

func TestNotifier_PublishSubscribe(t *testing.T) {
	rdb := newRedis(t)
	n := NewNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Event, 4)
	require.NoError(t, n.Subscribe(ctx, func(ev Event) {
		if ev.Type == "boom" {
			panic("subscriber bug")
		}
		received <- ev
	}))

	require.NoError(t, n.Publish(ctx, Event{Type: "boom"}))
	require.NoError(t, n.Publish(ctx, Event{Type: EventLikeCreated, ID: 3, PostID: 9, ActorID: 2}))

	select {
	case ev := <-received:
		assert.Equal(t, EventLikeCreated, ev.Type)
		assert.EqualValues(t, 9, ev.PostID)
		assert.EqualValues(t, 2, ev.ActorID)
		assert.False(t, ev.At.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestNotifier_Gate(t *testing.T) {
	rdb := newRedis(t)
	n := NewNotifier(rdb).WithGate(func(actorID uint) bool { return actorID == 1 })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Event, 4)
	require.NoError(t, n.Subscribe(ctx, func(ev Event) { received <- ev }))

	require.NoError(t, n.Publish(ctx, Event{Type: EventPostCreated, ID: 10, ActorID: 2}))
	require.NoError(t, n.Publish(ctx, Event{Type: EventPostCreated, ID: 11, ActorID: 1}))

	select {
	case ev := <-received:
		assert.EqualValues(t, 11, ev.ID, "gated actor must not publish")
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}
