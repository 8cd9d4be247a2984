package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisBus_PublishDelivers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewRedisBus(newTestRedis(t))
	require.NoError(t, bus.Start(ctx))

	got := make(chan Event, 1)
	bus.Subscribe(func(ev Event) { got <- ev })

	// The subscriber goroutine needs a moment to attach to the channel.
	time.Sleep(50 * time.Millisecond)

	sent := Event{Type: Followed, Actor: 1, Target: 2, At: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, bus.Publish(ctx, sent))

	select {
	case ev := <-got:
		assert.Equal(t, sent.Type, ev.Type)
		assert.Equal(t, sent.Actor, ev.Actor)
		assert.Equal(t, sent.Target, ev.Target)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestRedisBus_CancelStopsDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewRedisBus(newTestRedis(t))
	require.NoError(t, bus.Start(ctx))

	got := make(chan Event, 4)
	unsubscribe := bus.Subscribe(func(ev Event) { got <- ev })
	time.Sleep(50 * time.Millisecond)

	unsubscribe()
	require.NoError(t, bus.Publish(ctx, Event{Type: Followed, Actor: 1, Target: 2}))

	select {
	case <-got:
		t.Fatal("received event after unsubscribe")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRedisBus_NilClientDispatchesLocally(t *testing.T) {
	bus := NewRedisBus(nil)
	require.NoError(t, bus.Start(context.Background()))

	var got []Event
	bus.Subscribe(func(ev Event) { got = append(got, ev) })

	require.NoError(t, bus.Publish(context.Background(), Event{Type: Unfollowed, Actor: 3, Target: 4}))

	require.Len(t, got, 1)
	assert.Equal(t, Unfollowed, got[0].Type)
}

func TestRedisBus_SubscriberPanicIsContained(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewRedisBus(newTestRedis(t))
	require.NoError(t, bus.Start(ctx))

	bus.Subscribe(func(Event) { panic("boom") })
	survived := make(chan Event, 2)
	bus.Subscribe(func(ev Event) { survived <- ev })
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, bus.Publish(ctx, Event{Type: Followed, Actor: 1, Target: 2}))
	require.NoError(t, bus.Publish(ctx, Event{Type: Unfollowed, Actor: 1, Target: 2}))

	// The second event still arrives even though a sibling subscriber panics.
	deadline := time.After(2 * time.Second)
	for i := 0; i < 2; i++ {
		select {
		case <-survived:
		case <-deadline:
			t.Fatal("timed out waiting for events after subscriber panic")
		}
	}
}
