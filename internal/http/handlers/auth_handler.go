// README: Driver registration and login handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"entrega/internal/modules/driver"
	"entrega/internal/modules/identity"
)

type AuthHandler struct {
	identity *identity.Service
	drivers  *driver.Store
}

func NewAuthHandler(identitySvc *identity.Service, drivers *driver.Store) *AuthHandler {
	return &AuthHandler{identity: identitySvc, drivers: drivers}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req identity.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	session, err := h.identity.Register(c.Request.Context(), req)
	if err != nil {
		writeIdentityError(c, err)
		return
	}
	d, err := h.drivers.GetByID(c.Request.Context(), session.DriverID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{
		"success": true,
		"token":   session.Token,
		"driver":  driverView(d),
	})
}

type loginReq struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	session, err := h.identity.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		writeIdentityError(c, err)
		return
	}
	d, err := h.drivers.GetByID(c.Request.Context(), session.DriverID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"success": true,
		"token":   session.Token,
		"driver":  driverView(d),
	})
}
