// README: Redis pub/sub transport for lifecycle events.
package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"entrega/internal/logger"
)

const channel = "orders:lifecycle"

// Broker publishes and subscribes lifecycle events over a Redis channel so
// every API instance sees transitions performed by any other instance.
type Broker struct {
	client *redis.Client
	log    logger.Logger
	events chan Event
}

func NewBroker(client *redis.Client, log logger.Logger) *Broker {
	return &Broker{
		client: client,
		log:    log,
		events: make(chan Event, 256),
	}
}

func (b *Broker) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channel, payload).Err()
}

func (b *Broker) Events() <-chan Event {
	return b.events
}

// Run consumes the Redis subscription until ctx is cancelled. Events that do
// not fit the buffer are dropped; reconnecting clients reconcile via the list
// endpoints.
func (b *Broker) Run(ctx context.Context) {
	sub := b.client.Subscribe(ctx, channel)
	defer sub.Close()
	defer close(b.events)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				b.log.Warn("notify: bad event payload", logger.Error(err))
				continue
			}
			select {
			case b.events <- e:
			default:
				b.log.Warn("notify: event buffer full, dropping", logger.String("order_id", string(e.OrderID)))
			}
		}
	}
}
