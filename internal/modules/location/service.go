// README: Location tracker ingests driver position reports.
package location

import (
	"context"
	"errors"
	"time"

	"entrega/internal/logger"
	"entrega/internal/types"
)

var (
	ErrBadRequest = errors.New("invalid location sample")
	ErrNotFound   = errors.New("driver not found")
)

type Service struct {
	store *Store
	log   logger.Logger
}

func NewService(store *Store, log logger.Logger) *Service {
	return &Service{store: store, log: log}
}

type Report struct {
	DriverID   types.ID
	Position   types.Point
	Accuracy   float64
	ObservedAt time.Time
}

// Report records a position sample. Samples older than the stored one are
// dropped without error to tolerate network reordering; the response is an
// Ack either way.
func (s *Service) Report(ctx context.Context, r Report) error {
	if !r.Position.Valid() {
		return ErrBadRequest
	}
	observed := r.ObservedAt
	if observed.IsZero() {
		observed = time.Now().UTC()
	}

	written, err := s.store.UpdateIfNewer(ctx, r.DriverID, r.Position, r.Accuracy, observed)
	if err != nil {
		return err
	}
	if !written {
		exists, err := s.store.Exists(ctx, r.DriverID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		// Late sample: last_seen already newer. Keep the GEO set untouched.
		return nil
	}

	// GEO mirror is advisory; a redis failure must not fail the Ack.
	if err := s.store.SetGeo(ctx, r.DriverID, r.Position); err != nil {
		s.log.Warn("location: geo mirror failed",
			logger.String("driver_id", string(r.DriverID)), logger.Error(err))
	}
	return nil
}

// Offline removes the driver from the nearby index when they go inactive.
func (s *Service) Offline(ctx context.Context, driverID types.ID) {
	if err := s.store.RemoveGeo(ctx, driverID); err != nil {
		s.log.Warn("location: geo remove failed",
			logger.String("driver_id", string(driverID)), logger.Error(err))
	}
}

// Nearby lists online drivers within radiusKm of p, closest first.
func (s *Service) Nearby(ctx context.Context, p types.Point, radiusKm float64) ([]types.ID, error) {
	if !p.Valid() || radiusKm <= 0 {
		return nil, ErrBadRequest
	}
	return s.store.Nearby(ctx, p, radiusKm)
}
