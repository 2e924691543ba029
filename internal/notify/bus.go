// README: In-process event bus; Publisher+Source for single-node runs and tests.
package notify

import (
	"context"
	"sync"
)

// Bus is an in-memory Publisher/Source pair. Publish never blocks: events
// beyond the buffer are dropped, matching the at-least-once-with-reconcile
// contract of the redis broker.
type Bus struct {
	mu     sync.Mutex
	events chan Event
	closed bool
}

func NewBus() *Bus {
	return &Bus{events: make(chan Event, 256)}
}

func (b *Bus) Publish(_ context.Context, e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	select {
	case b.events <- e:
	default:
	}
	return nil
}

func (b *Bus) Events() <-chan Event {
	return b.events
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.events)
	}
}
