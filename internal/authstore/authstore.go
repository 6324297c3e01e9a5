// Package authstore keeps the signed-in credentials under one
// authoritative key. Older clients duplicated the token under several
// keys; LegacyAdapter is the only code that still knows about them.
package authstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stemsi/exstem-client/internal/model"
)

// ErrNoCredentials is returned by Load when nobody is signed in.
var ErrNoCredentials = errors.New("no stored credentials")

// Credentials is the signed-in session: the backend-issued token and the
// account it belongs to.
type Credentials struct {
	Token   string     `json:"token"`
	User    model.User `json:"user"`
	SavedAt time.Time  `json:"saved_at"`
}

// Store persists Credentials under a single key.
type Store interface {
	Load(ctx context.Context) (*Credentials, error)
	Save(ctx context.Context, creds *Credentials) error
	Clear(ctx context.Context) error
}

// ExpiresAt returns the token's exp claim when the token is a JWT that
// carries one. The signature is not checked; the backend owns that.
func (c *Credentials) ExpiresAt() (time.Time, bool) {
	if c == nil || strings.Count(c.Token, ".") != 2 {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.Token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Authenticated reports whether the credentials hold a token that has not
// visibly expired at now.
func (c *Credentials) Authenticated(now time.Time) bool {
	if c == nil || c.Token == "" {
		return false
	}
	if exp, ok := c.ExpiresAt(); ok && !now.Before(exp) {
		return false
	}
	return true
}

// LoadOptional is Load with ErrNoCredentials mapped to (nil, nil).
func LoadOptional(ctx context.Context, s Store) (*Credentials, error) {
	creds, err := s.Load(ctx)
	if errors.Is(err, ErrNoCredentials) {
		return nil, nil
	}
	return creds, err
}
