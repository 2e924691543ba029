// README: Order aggregate, lifecycle states, and claim/deliver outcomes.
package order

import (
	"time"

	"entrega/internal/types"
)

type Status string

const (
	// StatusAvailable: placed by the restaurant subsystem, visible to every
	// online driver, claimed by none.
	StatusAvailable Status = "available"
	// StatusAccepted: exactly one driver holds the claim.
	StatusAccepted Status = "accepted"
	// StatusDelivered is terminal.
	StatusDelivered Status = "delivered"
	// StatusCancelled is terminal; reachable from available or accepted.
	// No endpoint in this service drives it, the restaurant subsystem does.
	StatusCancelled Status = "cancelled"
)

// AllowedTransitions represents the order state flow as code. No transition
// skips a state; no transition reverses.
var AllowedTransitions = map[Status][]Status{
	StatusAvailable: {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusDelivered, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// Item is an ordered line item, immutable once the order is placed.
type Item struct {
	ProductName string      `json:"product_name"`
	Quantity    int         `json:"quantity"`
	UnitPrice   types.Money `json:"unit_price"`
}

type Order struct {
	ID              types.ID     `json:"id"`
	RestaurantID    types.ID     `json:"restaurant_id"`
	CustomerName    string       `json:"customer_name"`
	CustomerPhone   string       `json:"customer_phone"`
	DeliveryAddress string       `json:"delivery_address"`
	DeliveryCoords  *types.Point `json:"delivery_coordinates,omitempty"`
	DeliveryFee     types.Money  `json:"delivery_fee"`
	Subtotal        types.Money  `json:"subtotal"`
	Total           types.Money  `json:"total"`
	Status          Status       `json:"status"`
	ClaimedBy       *types.ID    `json:"claimed_by,omitempty"`
	ClaimedAt       *time.Time   `json:"claimed_at,omitempty"`
	DeliveredAt     *time.Time   `json:"delivered_at,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	Items           []Item       `json:"items"`
}

// Summary is the available-order list entry: the order enriched with
// restaurant pickup data and the requesting driver's distance to it.
type Summary struct {
	Order
	RestaurantName    string       `json:"restaurant_name"`
	RestaurantAddress string       `json:"restaurant_address"`
	RestaurantCity    string       `json:"restaurant_city"`
	RestaurantCoords  *types.Point `json:"restaurant_coordinates,omitempty"`
	// DistanceKm is the driver's great-circle distance to the restaurant,
	// rounded to one decimal. Nil when the driver has no location sample or
	// the restaurant has no coordinates.
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// ClaimOutcome is the tri-state result of the atomic claim.
type ClaimOutcome int

const (
	Claimed ClaimOutcome = iota
	AlreadyClaimed
	ClaimNotFound
)

// DeliverOutcome is the tri-state result of marking an order delivered.
type DeliverOutcome int

const (
	Delivered DeliverOutcome = iota
	DeliverForbidden
	DeliverNotFound
)

// HeatPoint is a delivery coordinate with a density weight for the heat map.
type HeatPoint struct {
	Position types.Point `json:"position"`
	Weight   int         `json:"weight"`
}
