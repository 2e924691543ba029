// README: Earnings ledger backed by PostgreSQL; append-only entries plus
// withdrawal rows.
package earnings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"entrega/internal/types"
)

var (
	ErrNotFound            = errors.New("driver not found")
	ErrBadRequest          = errors.New("invalid withdrawal amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// RecordDelivery appends a ledger entry for a delivered order. Idempotent on
// orderID: a retried delivery never double-counts. The delivery transaction
// normally writes this row itself; this path exists for confirmed-idempotent
// retries and backfills.
func (s *Store) RecordDelivery(ctx context.Context, e Entry) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO earnings_entries (order_id, driver_id, fee_cents, completed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id) DO NOTHING`,
		string(e.OrderID), string(e.DriverID), e.Fee.Cents, e.CompletedAt,
	)
	return err
}

// Summarize derives the driver's balance and windowed sums as of asOf.
// Day and week boundaries use asOf's own location.
func (s *Store) Summarize(ctx context.Context, driverID types.ID, asOf time.Time) (*Summary, error) {
	var rating float64
	err := s.db.QueryRow(ctx,
		`SELECT rating FROM drivers WHERE id = $1`, string(driverID),
	).Scan(&rating)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	dayStart := startOfDay(asOf)
	weekStart := startOfISOWeek(asOf)

	var lifetimeCents, todayCents, weekCents, deliveries int64
	err = s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(fee_cents), 0),
		       COALESCE(SUM(fee_cents) FILTER (WHERE completed_at >= $2 AND completed_at <= $4), 0),
		       COALESCE(SUM(fee_cents) FILTER (WHERE completed_at >= $3 AND completed_at <= $4), 0),
		       COUNT(*)
		FROM earnings_entries
		WHERE driver_id = $1`,
		string(driverID), dayStart, weekStart, asOf,
	).Scan(&lifetimeCents, &todayCents, &weekCents, &deliveries)
	if err != nil {
		return nil, err
	}

	var withdrawnCents int64
	err = s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM withdrawals
		WHERE driver_id = $1 AND status IN ('pending', 'settled')`,
		string(driverID),
	).Scan(&withdrawnCents)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Balance:         types.Money{Cents: lifetimeCents - withdrawnCents},
		Today:           types.Money{Cents: todayCents},
		Week:            types.Money{Cents: weekCents},
		TotalDeliveries: deliveries,
		Rating:          rating,
	}, nil
}

// RequestWithdrawal records a pending withdrawal after checking the available
// balance. The driver row is locked for the check-then-insert so two
// concurrent requests cannot both pass against the same balance.
func (s *Store) RequestWithdrawal(ctx context.Context, driverID types.ID, amount types.Money) (*Withdrawal, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var locked int
	err = tx.QueryRow(ctx,
		`SELECT 1 FROM drivers WHERE id = $1 FOR UPDATE`, string(driverID),
	).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var balanceCents int64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE((SELECT SUM(fee_cents) FROM earnings_entries WHERE driver_id = $1), 0)
		     - COALESCE((SELECT SUM(amount_cents) FROM withdrawals WHERE driver_id = $1 AND status IN ('pending', 'settled')), 0)`,
		string(driverID),
	).Scan(&balanceCents)
	if err != nil {
		return nil, err
	}
	if amount.Cents > balanceCents {
		return nil, ErrInsufficientBalance
	}

	w := &Withdrawal{
		ID:          types.ID(uuid.NewString()),
		DriverID:    driverID,
		Amount:      amount,
		Status:      "pending",
		RequestedAt: time.Now().UTC(),
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO withdrawals (id, driver_id, amount_cents, status, requested_at)
		VALUES ($1, $2, $3, $4, $5)`,
		string(w.ID), string(w.DriverID), w.Amount.Cents, w.Status, w.RequestedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return w, nil
}
