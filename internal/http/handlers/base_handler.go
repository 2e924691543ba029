// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"entrega/internal/modules/driver"
	"entrega/internal/modules/earnings"
	"entrega/internal/modules/identity"
	"entrega/internal/modules/location"
	"entrega/internal/modules/order"
)

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, gin.H{"error": msg})
}

// writeConflict carries a machine code so clients refresh the list instead of
// retrying the same claim.
func writeConflict(c *gin.Context, msg string) {
	writeJSON(c, http.StatusConflict, gin.H{"error": msg, "code": "conflict"})
}

func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrForbidden):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, order.ErrConflict):
		writeConflict(c, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeLocationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, location.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, location.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeEarningsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, earnings.ErrBadRequest), errors.Is(err, earnings.ErrInsufficientBalance):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, earnings.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeIdentityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, identity.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, identity.ErrPhoneTaken):
		writeConflict(c, err.Error())
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// driverView is the wire shape of a driver profile.
func driverView(d *driver.Driver) gin.H {
	v := gin.H{
		"id":            d.ID,
		"name":          d.Name,
		"phone":         d.Phone,
		"vehicle_plate": d.VehiclePlate,
		"status":        d.Status,
		"rating":        d.Rating,
		"created_at":    d.CreatedAt,
	}
	if d.RestaurantID != nil {
		v["restaurant_id"] = *d.RestaurantID
	}
	if loc := d.LastLocation; loc != nil {
		v["last_location"] = gin.H{
			"latitude":    loc.Position.Lat,
			"longitude":   loc.Position.Lng,
			"accuracy":    loc.Accuracy,
			"observed_at": loc.ObservedAt,
		}
	}
	return v
}
