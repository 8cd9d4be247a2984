package events

import (
	"context"
	"encoding/json"
	"log"
	"runtime/debug"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Channel carrying relationship mutation events across processes.
const relationChannel = "relations:events"

// RedisBus fans events out over Redis pub/sub so every server instance sees
// mutations applied on any of them. Delivery is at-least-once; a nil client
// degrades to a local-only publisher (same policy as the cache layer).
type RedisBus struct {
	rdb *redis.Client

	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

// NewRedisBus creates a RedisBus on the given client. Call Start to begin
// receiving remote events.
func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{
		rdb:  rdb,
		subs: make(map[int]func(Event)),
	}
}

// Publish marshals the event and publishes it on the relation channel.
func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	if b.rdb == nil {
		b.dispatch(ev)
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, relationChannel, payload).Err()
}

// Subscribe registers fn for every event received on this instance and
// returns its cancel func.
func (b *RedisBus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Start subscribes to the relation channel and pumps decoded events to local
// subscribers until ctx is cancelled. No-op without a Redis client.
func (b *RedisBus) Start(ctx context.Context) error {
	if b.rdb == nil {
		return nil
	}
	sub := b.rdb.Subscribe(ctx, relationChannel)
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
					log.Printf("relation event decode failed: %v", err)
					continue
				}
				b.dispatch(ev)
			}
		}
	}()

	return nil
}

func (b *RedisBus) dispatch(ev Event) {
	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("PANIC in relation event subscriber: %v\n%s", r, debug.Stack())
				}
			}()
			fn(ev)
		}()
	}
}
