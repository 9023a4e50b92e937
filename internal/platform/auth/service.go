package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStoreUnavailable   = errors.New("database unavailable")
)

// Mock scanner-device credentials, checked before any store access so field
// staff can log in even when the backend database is down.
const (
	mockEmail    = "volunteer@example.com"
	mockPassword = "password123"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Service struct {
	store    UserStore
	secret   []byte
	tokenTTL time.Duration
}

func NewService(store UserStore, secret string, tokenTTL time.Duration) *Service {
	return &Service{store: store, secret: []byte(secret), tokenTTL: tokenTTL}
}

func (s *Service) Secret() []byte {
	return s.secret
}

func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	if email == mockEmail && password == mockPassword {
		user := &User{ID: "mock-user-1", Name: "Mock Volunteer", Email: email}
		token, err := s.issueToken(user)
		return token, user, err
	}

	acct, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if acct == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	user := &User{ID: acct.ID, Name: acct.Name, Email: acct.Email}
	token, err := s.issueToken(user)
	return token, user, err
}

func (s *Service) issueToken(u *User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  u.ID,
		"name": u.Name,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	})
	return token.SignedString(s.secret)
}
