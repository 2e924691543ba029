// README: Assignment flow tests (claim, deliver, listing, history).
package order

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"entrega/internal/logger"
	"entrega/internal/modules/driver"
	"entrega/internal/notify"
	"entrega/internal/types"
)

func TestDeliveryFlowHappyPath(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	drivers := driver.NewStore(db)
	bus := notify.NewBus()
	defer bus.Close()
	svc := NewService(NewStore(db), drivers, nil, bus, logger.Nop())

	restaurantID := seedRestaurant(t, db)
	orderID := seedOrder(t, svc, restaurantID)
	driverID := seedDriver(t, db, "João")

	o, err := svc.Accept(ctx, orderID, driverID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if o.Status != StatusAccepted {
		t.Fatalf("expected accepted, got %s", o.Status)
	}

	d, err := drivers.GetByID(ctx, driverID)
	if err != nil {
		t.Fatalf("get driver: %v", err)
	}
	if d.Status != driver.StatusBusy {
		t.Fatalf("expected busy driver after accept, got %s", d.Status)
	}

	// Accepting publishes the available→accepted transition.
	ev := awaitEvent(t, bus)
	if ev.OrderID != orderID || ev.DriverID != driverID {
		t.Fatalf("accept event for wrong order/driver: %+v", ev)
	}
	if ev.From != string(StatusAvailable) || ev.To != string(StatusAccepted) {
		t.Fatalf("unexpected accept event transition: %s→%s", ev.From, ev.To)
	}

	active, err := svc.ListActive(ctx, driverID)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].ID != orderID {
		t.Fatalf("expected the accepted order in the active list")
	}

	if err := svc.CompleteDelivery(ctx, orderID, driverID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// Completing publishes the accepted→delivered transition.
	ev = awaitEvent(t, bus)
	if ev.OrderID != orderID || ev.DriverID != driverID {
		t.Fatalf("delivery event for wrong order/driver: %+v", ev)
	}
	if ev.From != string(StatusAccepted) || ev.To != string(StatusDelivered) {
		t.Fatalf("unexpected delivery event transition: %s→%s", ev.From, ev.To)
	}

	o, err = svc.Get(ctx, orderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if o.Status != StatusDelivered {
		t.Fatalf("expected delivered, got %s", o.Status)
	}
	if o.DeliveredAt == nil {
		t.Fatalf("expected delivered_at to be set")
	}

	// Completing the delivery writes the ledger entry in the same transaction.
	var fee int64
	err = db.QueryRow(ctx,
		`SELECT fee_cents FROM earnings_entries WHERE order_id = $1 AND driver_id = $2`,
		string(orderID), string(driverID)).Scan(&fee)
	if err != nil {
		t.Fatalf("earnings entry missing: %v", err)
	}
	if fee != 899 {
		t.Fatalf("expected fee 899 cents, got %d", fee)
	}

	d, err = drivers.GetByID(ctx, driverID)
	if err != nil {
		t.Fatalf("get driver: %v", err)
	}
	if d.Status != driver.StatusActive {
		t.Fatalf("expected driver back to active, got %s", d.Status)
	}

	history, err := svc.History(ctx, driverID, 10, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].ID != orderID {
		t.Fatalf("expected the delivered order in history")
	}
}

func awaitEvent(t *testing.T, bus *notify.Bus) notify.Event {
	t.Helper()
	select {
	case ev, ok := <-bus.Events():
		if !ok {
			t.Fatalf("event bus closed before event arrived")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("no lifecycle event published")
	}
	return notify.Event{}
}

func TestCompleteDeliveryByWrongDriver(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewService(NewStore(db), driver.NewStore(db), nil, nil, logger.Nop())

	restaurantID := seedRestaurant(t, db)
	orderID := seedOrder(t, svc, restaurantID)
	holder := seedDriver(t, db, "holder")
	impostor := seedDriver(t, db, "impostor")

	if _, err := svc.Accept(ctx, orderID, holder); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := svc.CompleteDelivery(ctx, orderID, impostor); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	o, err := svc.Get(ctx, orderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if o.Status != StatusAccepted {
		t.Fatalf("order state changed by impostor: %s", o.Status)
	}
}

func TestAcceptUnknownOrder(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewService(NewStore(db), driver.NewStore(db), nil, nil, logger.Nop())

	driverID := seedDriver(t, db, "orphan")
	if _, err := svc.Accept(ctx, types.ID(uuid.NewString()), driverID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAvailableWithDistance(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewService(NewStore(db), driver.NewStore(db), nil, nil, logger.Nop())

	restaurantID := seedRestaurant(t, db)
	seedOrder(t, svc, restaurantID)
	driverID := seedDriver(t, db, "nearby")

	// Park the driver ~1km east of the restaurant.
	_, err := db.Exec(ctx, `
		UPDATE drivers SET last_lat = -23.5505, last_lng = -46.6430, last_seen = $2
		WHERE id = $1`, string(driverID), time.Now())
	if err != nil {
		t.Fatalf("seed location: %v", err)
	}

	list, err := svc.ListAvailable(ctx, driverID)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 available order, got %d", len(list))
	}
	sum := list[0]
	if sum.RestaurantName != "Cantina da Praça" {
		t.Fatalf("restaurant fields not joined: %+v", sum)
	}
	if len(sum.Items) != 1 || sum.Items[0].Quantity != 2 {
		t.Fatalf("items not loaded: %+v", sum.Items)
	}
	if sum.DistanceKm == nil {
		t.Fatalf("expected a distance for a located driver")
	}
	if *sum.DistanceKm < 0.5 || *sum.DistanceKm > 2.0 {
		t.Fatalf("implausible distance %.1f km", *sum.DistanceKm)
	}

	// Once claimed the order leaves the pool.
	if _, err := svc.Accept(ctx, sum.ID, driverID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	list, err = svc.ListAvailable(ctx, driverID)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("claimed order still listed as available")
	}
}
