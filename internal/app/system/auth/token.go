package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTTL is the fixed validity window of an issued token.
const SessionTTL = 7 * 24 * time.Hour

// MinKeyLength is the shortest accepted signing key, in bytes.
const MinKeyLength = 32

var (
	// ErrInvalidToken covers every verification failure: bad signature,
	// wrong algorithm, malformed input, expiry or a missing user id.
	ErrInvalidToken = errors.New("invalid session token")
	ErrWeakKey      = fmt.Errorf("session key must be at least %d bytes", MinKeyLength)
)

// Payload is the identity embedded in a session token. Only UserID is
// trusted; the remaining fields are display hints that may be stale.
type Payload struct {
	UserID      string
	Email       string
	DisplayName string
	Role        string
	GroupID     string
}

type claims struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Role        string `json:"role,omitempty"`
	GroupID     string `json:"groupId,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 session tokens.
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenService returns a service signing with key.
func NewTokenService(key []byte) (*TokenService, error) {
	if len(key) < MinKeyLength {
		return nil, ErrWeakKey
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &TokenService{key: k, ttl: SessionTTL, now: time.Now}, nil
}

// WithClock replaces the time source. Used by tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// Issue mints a token for p valid for SessionTTL from now.
func (s *TokenService) Issue(p Payload) (string, error) {
	if p.UserID == "" {
		return "", errors.New("session payload has no user id")
	}
	now := s.now()
	c := claims{
		UserID:      p.UserID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Role:        p.Role,
		GroupID:     p.GroupID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses token and returns its payload, or ErrInvalidToken.
func (s *TokenService) Verify(token string) (Payload, error) {
	if token == "" {
		return Payload{}, ErrInvalidToken
	}
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || c.UserID == "" {
		return Payload{}, ErrInvalidToken
	}
	return Payload{
		UserID:      c.UserID,
		Email:       c.Email,
		DisplayName: c.DisplayName,
		Role:        c.Role,
		GroupID:     c.GroupID,
	}, nil
}
