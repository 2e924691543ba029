// README: Assignment engine; stateless coordinator over the order store and
// driver registry.
package order

import (
	"context"
	"errors"
	"time"

	"entrega/internal/geo"
	"entrega/internal/logger"
	"entrega/internal/modules/driver"
	"entrega/internal/modules/geocode"
	"entrega/internal/notify"
	"entrega/internal/types"
)

var (
	// ErrConflict means the claim race was lost. Routine, not a failure:
	// the caller refreshes its list instead of retrying the same claim.
	ErrConflict   = errors.New("order already claimed")
	ErrForbidden  = errors.New("order not claimed by this driver")
	ErrBadRequest = errors.New("bad request")
)

const heatmapWindow = 24 * time.Hour

type Service struct {
	store    *Store
	drivers  *driver.Store
	geocoder geocode.Geocoder
	pub      notify.Publisher
	log      logger.Logger
}

// NewService wires the assignment engine. geocoder and pub may be nil; the
// engine then skips coordinate backfill and event publishing.
func NewService(store *Store, drivers *driver.Store, geocoder geocode.Geocoder, pub notify.Publisher, log logger.Logger) *Service {
	return &Service{store: store, drivers: drivers, geocoder: geocoder, pub: pub, log: log}
}

// ListAvailable returns the unclaimed pool enriched with the requesting
// driver's distance to each restaurant. Missing coordinates are backfilled
// through the geocoding collaborator and persisted for the next read;
// geocoding failures degrade to "no distance", never to an error.
func (s *Service) ListAvailable(ctx context.Context, driverID types.ID) ([]Summary, error) {
	summaries, err := s.store.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	var driverPos *types.Point
	if d, err := s.drivers.GetByID(ctx, driverID); err == nil && d.LastLocation != nil {
		driverPos = &d.LastLocation.Position
	}

	for i := range summaries {
		sum := &summaries[i]
		s.backfillCoords(ctx, sum)
		if driverPos != nil && sum.RestaurantCoords != nil {
			km := geo.RoundKm1(geo.DistanceKm(*driverPos, *sum.RestaurantCoords))
			sum.DistanceKm = &km
		}
	}
	return summaries, nil
}

// Accept claims the order for the driver. Under N concurrent calls for one
// order exactly one returns the order; the rest get ErrConflict.
func (s *Service) Accept(ctx context.Context, orderID, driverID types.ID) (*Order, error) {
	outcome, err := s.store.TryClaim(ctx, orderID, driverID)
	if err != nil {
		return nil, err
	}
	switch outcome {
	case AlreadyClaimed:
		s.log.Info("accept lost claim race",
			logger.String("order_id", string(orderID)),
			logger.String("driver_id", string(driverID)))
		return nil, ErrConflict
	case ClaimNotFound:
		return nil, ErrNotFound
	}

	// The claim is committed; everything below is best-effort bookkeeping.
	if err := s.drivers.SetStatus(ctx, driverID, driver.StatusBusy); err != nil {
		s.log.Warn("accept: busy flag not set",
			logger.String("driver_id", string(driverID)), logger.Error(err))
	}
	s.publish(ctx, notify.Event{
		OrderID:  orderID,
		DriverID: driverID,
		From:     string(StatusAvailable),
		To:       string(StatusAccepted),
		At:       time.Now().UTC(),
	})

	return s.store.Get(ctx, orderID)
}

// CompleteDelivery marks the driver's accepted order delivered. "Not claimed
// by you" and "not in a deliverable state" collapse into ErrForbidden: both
// are client programming errors, not user-facing distinctions.
func (s *Service) CompleteDelivery(ctx context.Context, orderID, driverID types.ID) error {
	outcome, err := s.store.MarkDelivered(ctx, orderID, driverID)
	if err != nil {
		return err
	}
	switch outcome {
	case DeliverForbidden:
		return ErrForbidden
	case DeliverNotFound:
		return ErrNotFound
	}

	s.publish(ctx, notify.Event{
		OrderID:  orderID,
		DriverID: driverID,
		From:     string(StatusAccepted),
		To:       string(StatusDelivered),
		At:       time.Now().UTC(),
	})
	return nil
}

// ListActive returns the orders the driver currently holds.
func (s *Service) ListActive(ctx context.Context, driverID types.ID) ([]*Order, error) {
	return s.store.ListActiveByDriver(ctx, driverID)
}

// History returns the driver's delivered orders, most recent first.
func (s *Service) History(ctx context.Context, driverID types.ID, limit, offset int) ([]*Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListHistoryByDriver(ctx, driverID, limit, offset)
}

// Heatmap returns delivery-coordinate density for the last 24 hours,
// optionally scoped to one restaurant.
func (s *Service) Heatmap(ctx context.Context, restaurantID *types.ID) ([]HeatPoint, error) {
	return s.store.DeliveryPointsSince(ctx, restaurantID, time.Now().UTC().Add(-heatmapWindow))
}

// Get is the plain read path, used by handlers and the restaurant boundary.
func (s *Service) Get(ctx context.Context, id types.ID) (*Order, error) {
	return s.store.Get(ctx, id)
}

// Create places an order into the available pool (restaurant subsystem
// boundary).
func (s *Service) Create(ctx context.Context, o *Order) error {
	if o.RestaurantID == "" || o.DeliveryAddress == "" {
		return ErrBadRequest
	}
	if o.Status == "" {
		o.Status = StatusAvailable
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	return s.store.Create(ctx, o)
}

func (s *Service) backfillCoords(ctx context.Context, sum *Summary) {
	if s.geocoder == nil {
		return
	}
	if sum.RestaurantCoords == nil && sum.RestaurantAddress != "" {
		addr := sum.RestaurantAddress
		if sum.RestaurantCity != "" {
			addr += ", " + sum.RestaurantCity
		}
		if p, err := s.geocoder.Geocode(ctx, addr); err == nil {
			sum.RestaurantCoords = &p
			if err := s.store.SetRestaurantCoords(ctx, sum.RestaurantID, p); err != nil {
				s.log.Warn("geocode: restaurant coords not persisted", logger.Error(err))
			}
		}
	}
	if sum.DeliveryCoords == nil && sum.DeliveryAddress != "" {
		if p, err := s.geocoder.Geocode(ctx, sum.DeliveryAddress); err == nil {
			sum.DeliveryCoords = &p
			if err := s.store.SetDeliveryCoords(ctx, sum.ID, p); err != nil {
				s.log.Warn("geocode: delivery coords not persisted", logger.Error(err))
			}
		}
	}
}

// publish is fire-and-forget: a notifier outage must never fail or delay the
// state transition that already committed.
func (s *Service) publish(ctx context.Context, e notify.Event) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, e); err != nil {
		s.log.Warn("lifecycle publish failed",
			logger.String("order_id", string(e.OrderID)), logger.Error(err))
	}
}
