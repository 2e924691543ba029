// README: Registration and login for drivers.
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"entrega/internal/logger"
	"entrega/internal/types"
)

var (
	ErrBadRequest         = errors.New("invalid registration payload")
	ErrPhoneTaken         = errors.New("phone already registered")
	ErrInvalidCredentials = errors.New("invalid phone or password")
)

const minPasswordLen = 6

type RegisterInput struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	VehiclePlate string `json:"vehicle_plate"`
}

type Session struct {
	DriverID types.ID `json:"driver_id"`
	Token    string   `json:"token"`
}

type Service struct {
	store  *Store
	tokens *TokenManager
	log    logger.Logger
}

func NewService(store *Store, tokens *TokenManager, log logger.Logger) *Service {
	return &Service{store: store, tokens: tokens, log: log}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = normalizePhone(in.Phone)
	if in.Name == "" || in.Phone == "" || len(in.Password) < minPasswordLen {
		return nil, ErrBadRequest
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id := types.ID(uuid.NewString())
	if err := s.store.CreateDriver(ctx, id, in.Name, in.Phone, in.VehiclePlate, string(hash)); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(id, in.Phone)
	if err != nil {
		return nil, err
	}
	s.log.Info("driver registered", logger.String("driver_id", string(id)))
	return &Session{DriverID: id, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, phone, password string) (*Session, error) {
	phone = normalizePhone(phone)
	if phone == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	driverID, hash, err := s.store.PasswordHash(ctx, phone)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(driverID, phone)
	if err != nil {
		return nil, err
	}
	return &Session{DriverID: driverID, Token: token}, nil
}

// normalizePhone strips everything but digits so "(11) 98888-7777" and
// "11988887777" hit the same row.
func normalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
