// README: Bearer-token auth; puts the caller's driver identity on the context.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"entrega/internal/modules/identity"
	"entrega/internal/types"
)

const (
	ctxDriverID = "auth.driver_id"
	ctxPhone    = "auth.phone"
)

// Auth rejects requests without a valid `Authorization: Bearer <jwt>` header.
// On success the driver id and phone are stored on the gin context for
// CallerID / CallerPhone.
func Auth(verifier identity.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxDriverID, claims.DriverID)
		c.Set(ctxPhone, claims.Phone)
		c.Next()
	}
}

// CallerID returns the authenticated driver's id, or "" outside Auth.
func CallerID(c *gin.Context) types.ID {
	return types.ID(c.GetString(ctxDriverID))
}

func CallerPhone(c *gin.Context) string {
	return c.GetString(ctxPhone)
}
