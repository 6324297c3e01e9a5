// Package database opens the backend that holds the signed-in credentials.
package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-client/internal/authstore"
	"github.com/stemsi/exstem-client/internal/config"
)

// OpenCredentialStore builds the store selected by cfg.CredentialStore.
// Persistent backends are wrapped in a LegacyAdapter so credentials an
// older client left behind are migrated on first read. The returned close
// func releases any connection and is never nil.
func OpenCredentialStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (authstore.Store, func(), error) {
	switch cfg.CredentialStore {
	case config.StoreMemory:
		log.Info().Msg("Credentials kept in memory")
		return authstore.NewMemoryStore(), func() {}, nil

	case config.StoreFile:
		fs := authstore.NewFileStore(cfg.CredentialFile)
		log.Info().Str("path", cfg.CredentialFile).Msg("Credentials kept in file")
		return authstore.NewLegacyAdapter(fs, fs, log), func() {}, nil

	case config.StoreRedis:
		rdb, err := NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			return nil, nil, err
		}
		rs := authstore.NewRedisStore(rdb)
		return authstore.NewLegacyAdapter(rs, rs, log), func() { _ = rdb.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown credential store %q", cfg.CredentialStore)
	}
}
