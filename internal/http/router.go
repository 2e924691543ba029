// README: HTTP route registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"entrega/internal/http/handlers"
	"entrega/internal/http/middleware"
	"entrega/internal/logger"
	"entrega/internal/modules/driver"
	"entrega/internal/modules/earnings"
	"entrega/internal/modules/identity"
	"entrega/internal/modules/location"
	"entrega/internal/modules/order"
	"entrega/internal/notify"
)

type RouterDeps struct {
	Identity *identity.Service
	Verifier identity.TokenVerifier
	Drivers  *driver.Store
	Orders   *order.Service
	Location *location.Service
	Earnings *earnings.Service
	Hub      *notify.Hub
	Log      logger.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log), middleware.Logging(deps.Log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	authHandler := handlers.NewAuthHandler(deps.Identity, deps.Drivers)
	r.POST("/api/driver/auth/register", authHandler.Register)
	r.POST("/api/driver/auth/login", authHandler.Login)

	authed := r.Group("/api/driver", middleware.Auth(deps.Verifier))

	orderHandler := handlers.NewOrderHandler(deps.Orders)
	authed.GET("/orders/available", orderHandler.ListAvailable)
	authed.GET("/orders/active", orderHandler.ListActive)
	authed.GET("/orders/history", orderHandler.History)
	authed.POST("/orders/:id/accept", orderHandler.Accept)
	authed.POST("/orders/:id/reject", orderHandler.Reject)
	authed.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	authed.GET("/heatmap", orderHandler.Heatmap)

	locationHandler := handlers.NewLocationHandler(deps.Location)
	authed.PUT("/location", locationHandler.Update)

	driverHandler := handlers.NewDriverHandler(deps.Drivers, deps.Location)
	authed.GET("/profile", driverHandler.Profile)
	authed.PUT("/status", driverHandler.SetStatus)

	earningsHandler := handlers.NewEarningsHandler(deps.Earnings)
	authed.GET("/earnings", earningsHandler.Summary)
	authed.POST("/withdrawal", earningsHandler.Withdraw)

	if deps.Hub != nil {
		authed.GET("/ws", func(c *gin.Context) {
			deps.Hub.ServeWS(c.Writer, c.Request, middleware.CallerID(c))
		})
	}

	return r
}
