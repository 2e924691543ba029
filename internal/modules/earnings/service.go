// README: Earnings service; thin orchestration over the ledger store.
package earnings

import (
	"context"
	"time"

	"entrega/internal/types"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Summarize(ctx context.Context, driverID types.ID, asOf time.Time) (*Summary, error) {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return s.store.Summarize(ctx, driverID, asOf)
}

func (s *Service) RequestWithdrawal(ctx context.Context, driverID types.ID, amount types.Money) (*Withdrawal, error) {
	if amount.Cents <= 0 {
		return nil, ErrBadRequest
	}
	return s.store.RequestWithdrawal(ctx, driverID, amount)
}

// RecordDelivery appends an entry for a delivered order; safe to retry.
func (s *Service) RecordDelivery(ctx context.Context, e Entry) error {
	return s.store.RecordDelivery(ctx, e)
}
