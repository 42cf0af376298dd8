package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Rejection reasons for Validate. Callers must not leak which one occurred
// to the client; the boundary collapses all of them into one generic 401.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrBadSignature   = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
	ErrSubjectMissing = errors.New("token subject missing")
)

// Manager issues and validates signed identity tokens. The signing secret
// and TTL are injected at construction, never read from package state.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue creates an HS256 token carrying the username as subject with an
// absolute expiry of now + TTL.
func (m *Manager) Issue(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(m.ttl).Unix(),
	})
	return token.SignedString(m.secret)
}

// Validate verifies signature and expiry and returns the subject username.
// A subject that no longer exists in the store is the caller's check; this
// layer only guarantees the token itself is sound.
func (m *Manager) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadSignature
		}
		return m.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrBadSignature
		default:
			return "", ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrTokenMalformed
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrSubjectMissing
	}
	return sub, nil
}
