// Package events delivers fire-and-forget state-change notifications to
// realtime subscribers (dashboards, bots). Publish failures must never fail
// the request that triggered them; callers log and move on.
package events

import (
	"context"
	"sync"
	"time"
)

// Event is one state-change notification.

type Event struct {
	// Type is a dotted event name, e.g. "call.started", "message.status".
	Type string `json:"type"`
	// Entity is the record kind: "call" or "message".
	Entity string `json:"entity"`
	// ID is the record identity key (callId / messageId).
	ID string `json:"id"`
	// Payload carries the record snapshot at publish time.
	Payload any `json:"payload,omitempty"`

	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event. Useful when no realtime channel is configured.

type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, e Event) error { return nil }

// MemoryPublisher records events in memory for tests.

type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher { return &MemoryPublisher{} }

func (p *MemoryPublisher) Publish(ctx context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// Fanout delivers each event to every configured sink. All sinks are
// attempted; the first error is returned.

type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, e Event) error {
	var firstErr error
	for _, p := range f {
		if err := p.Publish(ctx, e); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
