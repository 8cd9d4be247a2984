package events

import (
	"context"
	"sync"
)

// MemoryBus is a synchronous in-process Bus. Publish invokes every
// subscriber on the calling goroutine before returning, which gives tests
// deterministic ordering and gives the in-process reconciler wiring a
// zero-infrastructure path.
type MemoryBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

// NewMemoryBus creates an empty in-process bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[int]func(Event))}
}

// Publish delivers ev to every subscriber synchronously.
func (b *MemoryBus) Publish(_ context.Context, ev Event) error {
	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
	return nil
}

// Subscribe registers fn and returns its cancel func.
func (b *MemoryBus) Subscribe(fn func(Event)) func() {
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
