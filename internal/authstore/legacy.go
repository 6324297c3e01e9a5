package authstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-client/internal/config"
	"github.com/stemsi/exstem-client/internal/model"
)

// KeyValue is raw key access to the storage an older client wrote to.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// legacyKeys lists every key older clients wrote, including the refresh
// token some builds stored and never read.
var legacyKeys = []string{
	config.LegacyAccessTokenKey,
	config.LegacyTokenKey,
	config.LegacyUserKey,
	"refreshToken",
}

// LegacyAdapter wraps the authoritative Store. When the store is empty it
// migrates credentials found under the legacy keys once, then removes them.
// It never writes the legacy layout.
type LegacyAdapter struct {
	store  Store
	legacy KeyValue
	log    zerolog.Logger
}

// NewLegacyAdapter creates a LegacyAdapter.
func NewLegacyAdapter(store Store, legacy KeyValue, log zerolog.Logger) *LegacyAdapter {
	return &LegacyAdapter{
		store:  store,
		legacy: legacy,
		log:    log.With().Str("component", "legacy_credentials").Logger(),
	}
}

func (a *LegacyAdapter) Load(ctx context.Context) (*Credentials, error) {
	creds, err := a.store.Load(ctx)
	if !errors.Is(err, ErrNoCredentials) {
		return creds, err
	}

	creds, err = a.readLegacy(ctx)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, ErrNoCredentials
	}
	if err := a.store.Save(ctx, creds); err != nil {
		return nil, err
	}
	if err := a.legacy.Delete(ctx, legacyKeys...); err != nil {
		a.log.Warn().Err(err).Msg("Failed to remove legacy credential keys")
	}
	a.log.Info().Str("username", creds.User.Username).Msg("Migrated legacy credentials")
	return creds, nil
}

func (a *LegacyAdapter) Save(ctx context.Context, creds *Credentials) error {
	return a.store.Save(ctx, creds)
}

// Clear signs out everywhere, legacy keys included.
func (a *LegacyAdapter) Clear(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	return a.legacy.Delete(ctx, legacyKeys...)
}

// readLegacy prefers accessToken over token, matching the order older
// clients read them in.
func (a *LegacyAdapter) readLegacy(ctx context.Context) (*Credentials, error) {
	token := ""
	for _, key := range []string{config.LegacyAccessTokenKey, config.LegacyTokenKey} {
		v, ok, err := a.legacy.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok && v != "" {
			token = v
			break
		}
	}
	if token == "" {
		return nil, nil
	}

	creds := &Credentials{Token: token, SavedAt: time.Now().UTC()}
	raw, ok, err := a.legacy.Get(ctx, config.LegacyUserKey)
	if err != nil {
		return nil, err
	}
	if ok && raw != "" {
		var user model.User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			a.log.Warn().Err(err).Msg("Ignoring malformed legacy user entry")
		} else {
			creds.User = user
		}
	}
	return creds, nil
}
