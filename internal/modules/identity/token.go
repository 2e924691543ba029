// README: JWT issue/verify for driver sessions.
package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"entrega/internal/types"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	DriverID string `json:"driver_id"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier is what the HTTP layer needs from this package; handler tests
// swap in a stub.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Issue(driverID types.ID, phone string) (string, error) {
	now := time.Now()
	claims := &Claims{
		DriverID: string(driverID),
		Phone:    phone,
		Role:     "driver",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.DriverID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
