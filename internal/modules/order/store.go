// README: Order store backed by PostgreSQL; the claim is one conditional UPDATE.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"entrega/internal/types"
)

var ErrNotFound = errors.New("order not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const orderColumns = `
	o.id, o.restaurant_id, o.customer_name, o.customer_phone,
	o.delivery_address, o.delivery_lat, o.delivery_lng,
	o.delivery_fee_cents, o.subtotal_cents, o.total_cents,
	o.status, o.claimed_by, o.claimed_at, o.delivered_at, o.created_at`

// Create inserts an order with its line items. This is the restaurant
// subsystem's entry point into the pool; the service exposes it for that
// boundary and for tests.
func (s *Store) Create(ctx context.Context, o *Order) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var deliveryLat, deliveryLng *float64
	if o.DeliveryCoords != nil {
		deliveryLat, deliveryLng = &o.DeliveryCoords.Lat, &o.DeliveryCoords.Lng
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO orders (
			id, restaurant_id, customer_name, customer_phone,
			delivery_address, delivery_lat, delivery_lng,
			delivery_fee_cents, subtotal_cents, total_cents,
			status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(o.ID), string(o.RestaurantID), o.CustomerName, o.CustomerPhone,
		o.DeliveryAddress, deliveryLat, deliveryLng,
		o.DeliveryFee.Cents, o.Subtotal.Cents, o.Total.Cents,
		string(o.Status), o.CreatedAt,
	)
	if err != nil {
		return err
	}
	for _, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_name, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4)`,
			string(o.ID), it.ProductName, it.Quantity, it.UnitPrice.Cents,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, string(id))
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// ListAvailable returns every unclaimed order joined with its restaurant,
// oldest first. The scan is a single statement, so the snapshot is stable
// within one read.
func (s *Store) ListAvailable(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+orderColumns+`,
		       r.name, r.address, r.city, r.latitude, r.longitude
		FROM orders o
		JOIN restaurants r ON r.id = o.restaurant_id
		WHERE o.status = 'available'
		ORDER BY o.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []Summary
	var orders []*Order
	for rows.Next() {
		var (
			sum  Summary
			rLat *float64
			rLng *float64
		)
		o, err := scanRow(rows, func() []any {
			return []any{&sum.RestaurantName, &sum.RestaurantAddress, &sum.RestaurantCity, &rLat, &rLng}
		})
		if err != nil {
			return nil, err
		}
		if rLat != nil && rLng != nil {
			sum.RestaurantCoords = &types.Point{Lat: *rLat, Lng: *rLng}
		}
		sum.Order = *o
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range summaries {
		orders = append(orders, &summaries[i].Order)
	}
	if err := s.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return summaries, nil
}

// TryClaim performs the single atomic conditional transition from available
// to accepted. It is the sole write path into the claimed state; concurrent
// calls on one order are serialized by the row update, so exactly one wins.
func (s *Store) TryClaim(ctx context.Context, orderID, driverID types.ID) (ClaimOutcome, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET status = 'accepted',
		    claimed_by = $2,
		    claimed_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1
		  AND status = 'available'
		  AND claimed_by IS NULL`,
		string(orderID), string(driverID),
	)
	if err != nil {
		return ClaimNotFound, err
	}
	if tag.RowsAffected() == 1 {
		return Claimed, nil
	}

	// Lost the race or the order never existed; the caller treats these
	// differently (refresh vs drop), so tell them apart.
	var exists bool
	err = s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, string(orderID),
	).Scan(&exists)
	if err != nil {
		return ClaimNotFound, err
	}
	if exists {
		return AlreadyClaimed, nil
	}
	return ClaimNotFound, nil
}

// MarkDelivered transitions accepted→delivered and records the earnings
// entry in the same transaction: no delivered order without a ledger entry,
// no ledger entry for a non-delivered order. The driver also flips back to
// active here so the busy flag cannot outlive the delivery.
func (s *Store) MarkDelivered(ctx context.Context, orderID, driverID types.ID) (DeliverOutcome, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return DeliverNotFound, err
	}
	defer tx.Rollback(ctx)

	var (
		feeCents    int64
		deliveredAt time.Time
	)
	err = tx.QueryRow(ctx, `
		UPDATE orders
		SET status = 'delivered',
		    delivered_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1
		  AND claimed_by = $2
		  AND status = 'accepted'
		RETURNING delivery_fee_cents, delivered_at`,
		string(orderID), string(driverID),
	).Scan(&feeCents, &deliveredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.deliverFailureOutcome(ctx, orderID)
	}
	if err != nil {
		return DeliverNotFound, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO earnings_entries (order_id, driver_id, fee_cents, completed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id) DO NOTHING`,
		string(orderID), string(driverID), feeCents, deliveredAt,
	)
	if err != nil {
		return DeliverNotFound, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE drivers SET status = 'active' WHERE id = $1 AND status = 'busy'`,
		string(driverID),
	)
	if err != nil {
		return DeliverNotFound, err
	}

	if err := tx.Commit(ctx); err != nil {
		return DeliverNotFound, err
	}
	return Delivered, nil
}

// deliverFailureOutcome distinguishes "not yours / wrong state" from "no such
// order" after a zero-row conditional update.
func (s *Store) deliverFailureOutcome(ctx context.Context, orderID types.ID) (DeliverOutcome, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, string(orderID),
	).Scan(&exists)
	if err != nil {
		return DeliverNotFound, err
	}
	if exists {
		return DeliverForbidden, nil
	}
	return DeliverNotFound, nil
}

// ListActiveByDriver returns the orders the driver currently holds.
func (s *Store) ListActiveByDriver(ctx context.Context, driverID types.ID) ([]*Order, error) {
	return s.listByDriver(ctx, driverID, `
		SELECT `+orderColumns+` FROM orders o
		WHERE o.claimed_by = $1 AND o.status = 'accepted'
		ORDER BY o.claimed_at`)
}

// ListHistoryByDriver returns delivered orders, most recent first.
func (s *Store) ListHistoryByDriver(ctx context.Context, driverID types.ID, limit, offset int) ([]*Order, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders o
		WHERE o.claimed_by = $1 AND o.status = 'delivered'
		ORDER BY o.delivered_at DESC
		LIMIT $2 OFFSET $3`,
		string(driverID), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (s *Store) listByDriver(ctx context.Context, driverID types.ID, query string) ([]*Order, error) {
	rows, err := s.db.Query(ctx, query, string(driverID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SetDeliveryCoords persists geocoded delivery coordinates for later reads.
func (s *Store) SetDeliveryCoords(ctx context.Context, orderID types.ID, p types.Point) error {
	_, err := s.db.Exec(ctx,
		`UPDATE orders SET delivery_lat = $1, delivery_lng = $2, updated_at = NOW() WHERE id = $3`,
		p.Lat, p.Lng, string(orderID))
	return err
}

// SetRestaurantCoords persists geocoded restaurant coordinates.
func (s *Store) SetRestaurantCoords(ctx context.Context, restaurantID types.ID, p types.Point) error {
	_, err := s.db.Exec(ctx,
		`UPDATE restaurants SET latitude = $1, longitude = $2 WHERE id = $3`,
		p.Lat, p.Lng, string(restaurantID))
	return err
}

// DeliveryPointsSince returns delivery coordinates created after since,
// optionally filtered to one restaurant, for the heat map.
func (s *Store) DeliveryPointsSince(ctx context.Context, restaurantID *types.ID, since time.Time) ([]HeatPoint, error) {
	query := `
		SELECT delivery_lat, delivery_lng
		FROM orders
		WHERE delivery_lat IS NOT NULL
		  AND delivery_lng IS NOT NULL
		  AND created_at >= $1`
	args := []any{since}
	if restaurantID != nil {
		query += ` AND restaurant_id = $2`
		args = append(args, string(*restaurantID))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []HeatPoint
	for rows.Next() {
		var lat, lng float64
		if err := rows.Scan(&lat, &lng); err != nil {
			return nil, err
		}
		points = append(points, HeatPoint{Position: types.Point{Lat: lat, Lng: lng}, Weight: 1})
	}
	return points, rows.Err()
}

func (s *Store) loadItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[types.ID]*Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, string(o.ID))
		o.Items = []Item{}
	}

	rows, err := s.db.Query(ctx, `
		SELECT order_id, product_name, quantity, unit_price_cents
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID    string
			it         Item
			priceCents int64
		)
		if err := rows.Scan(&orderID, &it.ProductName, &it.Quantity, &priceCents); err != nil {
			return err
		}
		it.UnitPrice = types.Money{Cents: priceCents}
		if o, ok := byID[types.ID(orderID)]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

func collectOrders(rows pgx.Rows) ([]*Order, error) {
	var orders []*Order
	for rows.Next() {
		o, err := scanRow(rows, nil)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func scanOrder(row pgx.Row) (*Order, error) {
	o, err := scanRow(row, nil)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

// scanRow scans the order columns plus any extra targets supplied by the
// caller (restaurant join columns).
func scanRow(row interface{ Scan(...any) error }, extra func() []any) (*Order, error) {
	var (
		o                        Order
		deliveryLat, deliveryLng *float64
		feeCents, subCents       int64
		totalCents               int64
		claimedBy                *string
	)
	targets := []any{
		&o.ID, &o.RestaurantID, &o.CustomerName, &o.CustomerPhone,
		&o.DeliveryAddress, &deliveryLat, &deliveryLng,
		&feeCents, &subCents, &totalCents,
		&o.Status, &claimedBy, &o.ClaimedAt, &o.DeliveredAt, &o.CreatedAt,
	}
	if extra != nil {
		targets = append(targets, extra()...)
	}
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	if deliveryLat != nil && deliveryLng != nil {
		o.DeliveryCoords = &types.Point{Lat: *deliveryLat, Lng: *deliveryLng}
	}
	o.DeliveryFee = types.Money{Cents: feeCents}
	o.Subtotal = types.Money{Cents: subCents}
	o.Total = types.Money{Cents: totalCents}
	if claimedBy != nil {
		id := types.ID(*claimedBy)
		o.ClaimedBy = &id
	}
	return &o, nil
}

