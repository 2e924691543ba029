// README: Driver aggregate and status definitions.
package driver

import (
	"time"

	"entrega/internal/types"
)

type Status string

const (
	// StatusActive means the driver is online and visible to dispatch.
	StatusActive Status = "active"
	// StatusInactive means the driver is offline. Drivers are never deleted;
	// deactivation is a status flip.
	StatusInactive Status = "inactive"
	// StatusBusy means the driver currently holds an accepted order.
	StatusBusy Status = "busy"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInactive, StatusBusy:
		return true
	}
	return false
}

// Sample is a driver's last known position. Only the location tracker writes
// it; everything else reads.
type Sample struct {
	Position   types.Point
	Accuracy   float64
	ObservedAt time.Time
}

type Driver struct {
	ID           types.ID
	RestaurantID *types.ID
	Name         string
	Phone        string
	VehiclePlate string
	Status       Status
	Rating       float64
	LastLocation *Sample
	CreatedAt    time.Time
}
