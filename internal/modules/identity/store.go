// README: Driver credential persistence.
package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"entrega/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// CreateDriver inserts the driver row and its credentials in one transaction.
// A duplicate phone surfaces as ErrPhoneTaken.
func (s *Store) CreateDriver(ctx context.Context, id types.ID, name, phone, vehiclePlate, passwordHash string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO drivers (id, name, phone, vehicle_plate, status)
		VALUES ($1, $2, $3, $4, 'inactive')`,
		string(id), name, phone, vehiclePlate)
	if isUniqueViolation(err) {
		return ErrPhoneTaken
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO driver_credentials (driver_id, password_hash)
		VALUES ($1, $2)`,
		string(id), passwordHash)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// PasswordHash returns the stored hash for a phone, plus the owning driver id.
func (s *Store) PasswordHash(ctx context.Context, phone string) (types.ID, string, error) {
	var (
		driverID string
		hash     string
	)
	err := s.db.QueryRow(ctx, `
		SELECT d.id, c.password_hash
		FROM drivers d
		JOIN driver_credentials c ON c.driver_id = d.id
		WHERE d.phone = $1`,
		phone).Scan(&driverID, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", ErrInvalidCredentials
	}
	if err != nil {
		return "", "", err
	}
	return types.ID(driverID), hash, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
