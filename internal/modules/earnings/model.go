// README: Earnings ledger entries and derived aggregates.
package earnings

import (
	"time"

	"entrega/internal/types"
)

// Entry is an immutable record of a completed delivery's fee. One per order.
type Entry struct {
	OrderID     types.ID
	DriverID    types.ID
	Fee         types.Money
	CompletedAt time.Time
}

type Withdrawal struct {
	ID          types.ID
	DriverID    types.ID
	Amount      types.Money
	Status      string
	RequestedAt time.Time
}

// Summary is the driver-facing earnings view. Balance is the lifetime fee sum
// minus withdrawals; Today and Week are fee sums over the local day and ISO
// week containing the as-of instant.
type Summary struct {
	Balance         types.Money `json:"balance"`
	Today           types.Money `json:"today"`
	Week            types.Money `json:"week"`
	TotalDeliveries int64       `json:"total_deliveries"`
	Rating          float64     `json:"rating"`
}
