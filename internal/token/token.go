package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLifetime is how long an issued token stays valid.
const DefaultLifetime = 30 * 24 * time.Hour

var (
	ErrInvalid = errors.New("invalid token")
	ErrExpired = errors.New("token expired")
)

// Claims embeds the registered claims plus the subject user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Service issues and validates stateless HS256 bearer tokens. There is no
// server-side revocation; a token stays valid until its embedded expiry.
type Service struct {
	secret   []byte
	lifetime time.Duration
}

func NewService(secret string, lifetime time.Duration) *Service {
	if lifetime == 0 {
		lifetime = DefaultLifetime
	}
	return &Service{secret: []byte(secret), lifetime: lifetime}
}

// Issue mints a signed token for userID expiring lifetime from now.
func (s *Service) Issue(userID string) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
		UserID: userID,
	})
	return tok.SignedString(s.secret)
}

// Validate verifies signature and expiry and returns the embedded user id.
// The outcome is binary: ErrExpired past the embedded expiry, ErrInvalid for
// everything else that isn't a valid token.
func (s *Service) Validate(tokenString string) (string, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}
	if !tok.Valid || claims.UserID == "" {
		return "", ErrInvalid
	}
	return claims.UserID, nil
}
