// README: Location store backed by Postgres last-known columns and Redis GEO.
package location

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"entrega/internal/types"
)

const driversGeoKey = "drivers:geo"

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func NewStore(db *pgxpool.Pool, redis *redis.Client) *Store {
	return &Store{db: db, redis: redis}
}

// UpdateIfNewer overwrites the driver's last-known sample only when observedAt
// is strictly newer than the stored one. It reports whether the row was
// written; a stale sample returns (false, nil) so callers can Ack silently.
func (s *Store) UpdateIfNewer(ctx context.Context, driverID types.ID, pos types.Point, accuracy float64, observedAt time.Time) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE drivers
		SET last_lat = $1,
		    last_lng = $2,
		    last_accuracy = $3,
		    last_seen = $4
		WHERE id = $5
		  AND (last_seen IS NULL OR last_seen < $4)`,
		pos.Lat, pos.Lng, accuracy, observedAt, string(driverID),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Exists reports whether the driver row is present, used to distinguish a
// stale sample from an unknown driver after a zero-row update.
func (s *Store) Exists(ctx context.Context, driverID types.ID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM drivers WHERE id = $1)`, string(driverID),
	).Scan(&exists)
	return exists, err
}

// SetGeo mirrors the driver's position into the online-driver GEO set.
func (s *Store) SetGeo(ctx context.Context, driverID types.ID, pos types.Point) error {
	return s.redis.GeoAdd(ctx, driversGeoKey, &redis.GeoLocation{
		Name:      string(driverID),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
}

// RemoveGeo drops the driver from the GEO set when they go offline.
func (s *Store) RemoveGeo(ctx context.Context, driverID types.ID) error {
	return s.redis.ZRem(ctx, driversGeoKey, string(driverID)).Err()
}

// Nearby returns driver ids within radiusKm of p, closest first.
func (s *Store) Nearby(ctx context.Context, p types.Point, radiusKm float64) ([]types.ID, error) {
	results, err := s.redis.GeoSearch(ctx, driversGeoKey, &redis.GeoSearchQuery{
		Longitude:  p.Lng,
		Latitude:   p.Lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]types.ID, len(results))
	for i, r := range results {
		ids[i] = types.ID(r)
	}
	return ids, nil
}
