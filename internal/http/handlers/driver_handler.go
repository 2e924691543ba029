// README: Driver profile and online-status handlers.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"entrega/internal/http/middleware"
	"entrega/internal/modules/driver"
	"entrega/internal/modules/location"
)

type DriverHandler struct {
	drivers  *driver.Store
	location *location.Service
}

func NewDriverHandler(drivers *driver.Store, locationSvc *location.Service) *DriverHandler {
	return &DriverHandler{drivers: drivers, location: locationSvc}
}

func (h *DriverHandler) Profile(c *gin.Context) {
	d, err := h.drivers.GetByID(c.Request.Context(), middleware.CallerID(c))
	if errors.Is(err, driver.ErrNotFound) {
		writeError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "driver": driverView(d)})
}

type setStatusReq struct {
	Status string `json:"status"`
}

// SetStatus flips the caller between active and inactive. "busy" is managed
// by the assignment flow and cannot be requested directly.
func (h *DriverHandler) SetStatus(c *gin.Context) {
	var req setStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	status := driver.Status(req.Status)
	if status != driver.StatusActive && status != driver.StatusInactive {
		writeError(c, http.StatusBadRequest, "status must be active or inactive")
		return
	}

	driverID := middleware.CallerID(c)
	if err := h.drivers.SetStatus(c.Request.Context(), driverID, status); err != nil {
		if errors.Is(err, driver.ErrNotFound) {
			writeError(c, http.StatusNotFound, err.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if status == driver.StatusInactive {
		h.location.Offline(c.Request.Context(), driverID)
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "status": status})
}
