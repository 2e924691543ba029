// README: Location report handler.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"entrega/internal/http/middleware"
	"entrega/internal/modules/location"
	"entrega/internal/types"
)

type LocationHandler struct {
	location *location.Service
}

func NewLocationHandler(svc *location.Service) *LocationHandler {
	return &LocationHandler{location: svc}
}

// Coordinates are pointers so an absent field is distinguishable from a
// legitimate 0 and rejected instead of silently binding to (0,0).
type locationReq struct {
	Latitude   *float64   `json:"latitude"`
	Longitude  *float64   `json:"longitude"`
	Accuracy   float64    `json:"accuracy"`
	ObservedAt *time.Time `json:"observed_at"`
}

func (h *LocationHandler) Update(c *gin.Context) {
	var req locationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(c, http.StatusBadRequest, "latitude and longitude are required")
		return
	}
	report := location.Report{
		DriverID: middleware.CallerID(c),
		Position: types.Point{Lat: *req.Latitude, Lng: *req.Longitude},
		Accuracy: req.Accuracy,
	}
	if req.ObservedAt != nil {
		report.ObservedAt = *req.ObservedAt
	}
	if err := h.location.Report(c.Request.Context(), report); err != nil {
		writeLocationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true})
}
