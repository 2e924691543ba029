// README: Driver registry backed by PostgreSQL.
package driver

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"entrega/internal/types"
)

var ErrNotFound = errors.New("driver not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const driverColumns = `
	id, restaurant_id, name, phone, vehicle_plate, status, rating,
	last_lat, last_lng, last_accuracy, last_seen, created_at`

func (s *Store) GetByID(ctx context.Context, id types.ID) (*Driver, error) {
	row := s.db.QueryRow(ctx, `SELECT `+driverColumns+` FROM drivers WHERE id = $1`, string(id))
	return scanDriver(row)
}

func (s *Store) GetByPhone(ctx context.Context, phone string) (*Driver, error) {
	row := s.db.QueryRow(ctx, `SELECT `+driverColumns+` FROM drivers WHERE phone = $1`, phone)
	return scanDriver(row)
}

// SetStatus flips the driver's online status. Unknown ids map to ErrNotFound.
func (s *Store) SetStatus(ctx context.Context, id types.ID, status Status) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE drivers SET status = $1 WHERE id = $2`, string(status), string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDriver(row pgx.Row) (*Driver, error) {
	var (
		d            Driver
		restaurantID *string
		lat, lng     *float64
		accuracy     *float64
		observedAt   *time.Time
	)
	err := row.Scan(
		&d.ID, &restaurantID, &d.Name, &d.Phone, &d.VehiclePlate, &d.Status, &d.Rating,
		&lat, &lng, &accuracy, &observedAt, &d.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if restaurantID != nil {
		rid := types.ID(*restaurantID)
		d.RestaurantID = &rid
	}
	if lat != nil && lng != nil && observedAt != nil {
		sample := Sample{
			Position:   types.Point{Lat: *lat, Lng: *lng},
			ObservedAt: *observedAt,
		}
		if accuracy != nil {
			sample.Accuracy = *accuracy
		}
		d.LastLocation = &sample
	}
	return &d, nil
}
