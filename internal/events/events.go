// Package events defines the relationship mutation event type and the
// publish/subscribe capability handed to producers and consumers.
package events

import (
	"context"
	"time"
)

// EventType is the closed set of relationship mutations.
type EventType string

const (
	// Followed means Actor started following Target.
	Followed EventType = "followed"
	// Unfollowed means Actor stopped following Target.
	Unfollowed EventType = "unfollowed"
)

// Event is a relationship mutation notification. It is published only after
// the mutation has been durably applied; consumers never see an event for a
// mutation that can still fail. Delivery is at-least-once and unordered, so
// consumers must apply events idempotently.
type Event struct {
	Type   EventType `json:"type"`
	Actor  uint      `json:"actor"`
	Target uint      `json:"target"`
	At     time.Time `json:"at"`
}

// Bus is the fan-out capability injected into the relationship service and
// its consumers. Implementations must tolerate slow or absent subscribers
// without blocking the publisher indefinitely.
type Bus interface {
	// Publish delivers the event to all current subscribers.
	Publish(ctx context.Context, ev Event) error
	// Subscribe registers fn for every subsequently published event and
	// returns a cancel func that unregisters it.
	Subscribe(fn func(Event)) (cancel func())
}
