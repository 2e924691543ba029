// README: Lifecycle event contract for order-state fan-out.
//
// The event stream is an optimization, not the source of truth: a subscriber
// that misses events reconciles by re-fetching the available/active lists.
package notify

import (
	"context"
	"time"

	"entrega/internal/types"
)

// Event describes one order state transition.
type Event struct {
	OrderID  types.ID  `json:"order_id"`
	DriverID types.ID  `json:"driver_id,omitempty"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	At       time.Time `json:"at"`
}

// Publisher emits lifecycle events. Implementations must not block on
// subscriber delivery; a slow subscriber never back-pressures the caller.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Source is the subscriber side: a stream of events for fan-out.
type Source interface {
	Events() <-chan Event
}
