// README: Earnings summary and withdrawal handlers.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"entrega/internal/http/middleware"
	"entrega/internal/modules/earnings"
	"entrega/internal/types"
)

type EarningsHandler struct {
	earnings *earnings.Service
}

func NewEarningsHandler(svc *earnings.Service) *EarningsHandler {
	return &EarningsHandler{earnings: svc}
}

func (h *EarningsHandler) Summary(c *gin.Context) {
	summary, err := h.earnings.Summarize(c.Request.Context(), middleware.CallerID(c), time.Now())
	if err != nil {
		writeEarningsError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "earnings": summary})
}

type withdrawalReq struct {
	Amount types.Money `json:"amount"`
}

func (h *EarningsHandler) Withdraw(c *gin.Context) {
	var req withdrawalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	w, err := h.earnings.RequestWithdrawal(c.Request.Context(), middleware.CallerID(c), req.Amount)
	if err != nil {
		writeEarningsError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"success": true,
		"withdrawal": gin.H{
			"id":           w.ID,
			"amount":       w.Amount,
			"status":       w.Status,
			"requested_at": w.RequestedAt,
		},
	})
}
