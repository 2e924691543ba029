// README: Tests for order handler auth and input validation.
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"entrega/internal/http/handlers"
	httpmiddleware "entrega/internal/http/middleware"
	"entrega/internal/logger"
	"entrega/internal/modules/identity"
	"entrega/internal/modules/order"
)

// stubTokenVerifier is a test double for identity.TokenVerifier.
type stubTokenVerifier struct {
	claims *identity.Claims
	err    error
}

func (s *stubTokenVerifier) Verify(_ string) (*identity.Claims, error) {
	return s.claims, s.err
}

// buildTestRouter wires a minimal gin engine with the auth middleware and the
// order handler. order.NewService with a nil store is safe here because every
// asserted path fails before any service method runs.
func buildTestRouter(verifier identity.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := order.NewService(nil, nil, nil, nil, logger.Nop())
	r := gin.New()
	r.Use(httpmiddleware.Auth(verifier))
	h := handlers.NewOrderHandler(svc)
	r.GET("/api/driver/orders/available", h.ListAvailable)
	r.POST("/api/driver/orders/:id/accept", h.Accept)
	r.POST("/api/driver/orders/:id/reject", h.Reject)
	r.PUT("/api/driver/orders/:id/status", h.UpdateStatus)
	return r
}

func driverVerifier(id string) *stubTokenVerifier {
	return &stubTokenVerifier{claims: &identity.Claims{DriverID: id, Phone: "11", Role: "driver"}}
}

func doRequest(r *gin.Engine, method, path string, body any, authHeader string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListAvailable_Unauthenticated(t *testing.T) {
	r := buildTestRouter(&stubTokenVerifier{err: identity.ErrInvalidToken})
	w := doRequest(r, http.MethodGet, "/api/driver/orders/available", nil, "Bearer badtoken")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAccept_MissingHeader(t *testing.T) {
	r := buildTestRouter(driverVerifier("driverA"))
	w := doRequest(r, http.MethodPost, "/api/driver/orders/abc/accept", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestReject_AcksWithoutStateChange(t *testing.T) {
	r := buildTestRouter(driverVerifier("driverA"))
	w := doRequest(r, http.MethodPost, "/api/driver/orders/abc/reject", nil, "Bearer sometoken")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 ack, got %d", w.Code)
	}
}

func TestUpdateStatus_InvalidJSON(t *testing.T) {
	r := buildTestRouter(driverVerifier("driverA"))
	req := httptest.NewRequest(http.MethodPut, "/api/driver/orders/abc/status", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer sometoken")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUpdateStatus_UnsupportedStatus(t *testing.T) {
	r := buildTestRouter(driverVerifier("driverA"))
	w := doRequest(r, http.MethodPut, "/api/driver/orders/abc/status",
		map[string]any{"status": "cancelled"}, "Bearer sometoken")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
