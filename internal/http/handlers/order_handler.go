// README: Order handlers for the driver app: listing, accept, status, history.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"entrega/internal/http/middleware"
	"entrega/internal/modules/order"
	"entrega/internal/types"
)

type OrderHandler struct {
	order *order.Service
}

func NewOrderHandler(svc *order.Service) *OrderHandler {
	return &OrderHandler{order: svc}
}

func (h *OrderHandler) ListAvailable(c *gin.Context) {
	orders, err := h.order.ListAvailable(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	if orders == nil {
		orders = []order.Summary{}
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (h *OrderHandler) ListActive(c *gin.Context) {
	orders, err := h.order.ListActive(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (h *OrderHandler) Accept(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing order id")
		return
	}
	o, err := h.order.Accept(c.Request.Context(), types.ID(id), middleware.CallerID(c))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "order": o})
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus drives the one transition a driver may request: accepted to
// delivered. The legacy mobile client sends "entregue"; both spellings land
// on the same transition.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing order id")
		return
	}
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	switch req.Status {
	case "entregue", string(order.StatusDelivered):
	default:
		writeError(c, http.StatusBadRequest, "unsupported status")
		return
	}
	err := h.order.CompleteDelivery(c.Request.Context(), types.ID(id), middleware.CallerID(c))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "status": order.StatusDelivered})
}

// Reject acknowledges that the driver declined an available order. Declining
// changes nothing server-side: the order stays in the pool for everyone else,
// so this is an ack for the mobile client's swipe-away gesture.
func (h *OrderHandler) Reject(c *gin.Context) {
	if c.Param("id") == "" {
		writeError(c, http.StatusBadRequest, "missing order id")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true})
}

func (h *OrderHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	orders, err := h.order.History(c.Request.Context(), middleware.CallerID(c), limit, offset)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "history": orders})
}

func (h *OrderHandler) Heatmap(c *gin.Context) {
	var restaurantID *types.ID
	if raw := c.Query("restaurant_id"); raw != "" {
		id := types.ID(raw)
		restaurantID = &id
	}
	points, err := h.order.Heatmap(c.Request.Context(), restaurantID)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	if points == nil {
		points = []order.HeatPoint{}
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "heatmap": points, "count": len(points)})
}
