// README: Redis-backed cache decorator for geocoders.
package geocode

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"entrega/internal/types"
)

const keyPrefix = "geocode:addr:"

// Cached wraps a Geocoder with a Redis cache keyed by normalized address.
// Only positive results are cached; ErrNoResult and transient failures go
// back to the upstream on the next call.
type Cached struct {
	next   Geocoder
	client *redis.Client
	ttl    time.Duration
}

func NewCached(next Geocoder, client *redis.Client, ttl time.Duration) *Cached {
	return &Cached{next: next, client: client, ttl: ttl}
}

func (c *Cached) Geocode(ctx context.Context, address string) (types.Point, error) {
	key := keyPrefix + normalize(address)

	if raw, err := c.client.Get(ctx, key).Result(); err == nil {
		var p types.Point
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			return p, nil
		}
	}

	p, err := c.next.Geocode(ctx, address)
	if err != nil {
		return types.Point{}, err
	}

	if payload, err := json.Marshal(p); err == nil {
		// Cache write failures are invisible to the caller.
		_ = c.client.Set(ctx, key, payload, c.ttl).Err()
	}
	return p, nil
}

func normalize(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}
