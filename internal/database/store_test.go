package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-client/internal/authstore"
	"github.com/stemsi/exstem-client/internal/config"
)

func TestOpenCredentialStore(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{"memory", config.Config{CredentialStore: config.StoreMemory}, false},
		{"file", config.Config{CredentialStore: config.StoreFile, CredentialFile: filepath.Join(t.TempDir(), "c.json")}, false},
		{"redis", config.Config{CredentialStore: config.StoreRedis, RedisURL: "redis://" + mr.Addr() + "/0"}, false},
		{"redis unreachable", config.Config{CredentialStore: config.StoreRedis, RedisURL: "redis://127.0.0.1:1/0"}, true},
		{"unknown", config.Config{CredentialStore: "etcd"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store, closeFn, err := OpenCredentialStore(ctx, &tt.cfg, zerolog.Nop())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("OpenCredentialStore: %v", err)
			}
			defer closeFn()

			if err := store.Save(ctx, &authstore.Credentials{Token: "tok"}); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := store.Load(ctx)
			if err != nil || got.Token != "tok" {
				t.Fatalf("Load = %+v, %v", got, err)
			}
		})
	}
}
