package authstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-client/internal/config"
	"github.com/stemsi/exstem-client/internal/model"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "alice", ExpiresAt: jwt.NewNumericDate(exp)}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func sampleCreds(token string) *Credentials {
	return &Credentials{
		Token: token,
		User:  model.User{Username: "alice", Email: "alice@example.com", Role: model.RoleStudent},
	}
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestStores_RoundTrip(t *testing.T) {
	redisStore, _ := newRedisStore(t)
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "nested", "creds.json")),
		"redis":  redisStore,
	}

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := s.Load(ctx); !errors.Is(err, ErrNoCredentials) {
				t.Fatalf("empty Load = %v, want ErrNoCredentials", err)
			}
			if err := s.Save(ctx, sampleCreds("tok-1")); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := s.Save(ctx, sampleCreds("tok-2")); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := s.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.Token != "tok-2" || got.User.Username != "alice" || got.User.Role != model.RoleStudent {
				t.Errorf("Load = %+v", got)
			}
			if err := s.Clear(ctx); err != nil {
				t.Fatalf("Clear: %v", err)
			}
			if _, err := s.Load(ctx); !errors.Is(err, ErrNoCredentials) {
				t.Errorf("Load after Clear = %v", err)
			}
		})
	}
}

func TestFileStore_SingleKeyAndPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	s := NewFileStore(path)
	if err := s.Save(context.Background(), sampleCreds("tok")); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %o, want 600", perm)
	}

	data, _ := os.ReadFile(path)
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("entries = %v, want only %s", entries, config.StoreKey)
	}
	if _, ok := entries[config.StoreKey]; !ok {
		t.Errorf("missing %s", config.StoreKey)
	}
}

func TestRedisStore_ExpiresWithToken(t *testing.T) {
	s, mr := newRedisStore(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	token := signedToken(t, now.Add(time.Hour))
	if err := s.Save(context.Background(), sampleCreds(token)); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL(config.StoreKey); ttl != time.Hour {
		t.Errorf("ttl = %v, want 1h", ttl)
	}

	mr.FastForward(time.Hour + time.Second)
	if _, err := s.Load(context.Background()); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("Load after expiry = %v", err)
	}
}

func TestRedisStore_SaveExpiredTokenClears(t *testing.T) {
	s, mr := newRedisStore(t)
	if err := s.Save(context.Background(), sampleCreds("opaque")); err != nil {
		t.Fatal(err)
	}
	expired := signedToken(t, time.Now().Add(-time.Minute))
	if err := s.Save(context.Background(), sampleCreds(expired)); err != nil {
		t.Fatal(err)
	}
	if mr.Exists(config.StoreKey) {
		t.Error("expired token stored")
	}
}

func TestCredentials_Authenticated(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		creds *Credentials
		want  bool
	}{
		{"nil", nil, false},
		{"empty token", &Credentials{}, false},
		{"opaque token", &Credentials{Token: "abc"}, true},
		{"valid jwt", &Credentials{Token: signedToken(t, now.Add(time.Hour))}, true},
		{"expired jwt", &Credentials{Token: signedToken(t, now.Add(-time.Second))}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.creds.Authenticated(now); got != tc.want {
				t.Errorf("Authenticated = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLegacyAdapter_MigratesFileLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	legacy := `{"token":"old-token","accessToken":"access-token","user":"{\"username\":\"bob\",\"role\":\"TEACHER\"}"}`
	if err := os.WriteFile(path, []byte(legacy), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileStore(path)
	a := NewLegacyAdapter(fs, fs, zerolog.Nop())

	creds, err := a.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if creds.Token != "access-token" || creds.User.Username != "bob" || creds.User.Role != model.RoleTeacher {
		t.Errorf("migrated = %+v", creds)
	}

	data, _ := os.ReadFile(path)
	var entries map[string]json.RawMessage
	_ = json.Unmarshal(data, &entries)
	if len(entries) != 1 {
		t.Errorf("legacy keys left behind: %s", data)
	}

	again, err := fs.Load(context.Background())
	if err != nil || again.Token != "access-token" {
		t.Errorf("authoritative store = %+v, %v", again, err)
	}
}

func TestLegacyAdapter_RedisFallsBackToTokenKey(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Set(config.LegacyTokenKey, "only-token")
	a := NewLegacyAdapter(s, s, zerolog.Nop())

	creds, err := a.Load(context.Background())
	if err != nil || creds.Token != "only-token" {
		t.Fatalf("Load = %+v, %v", creds, err)
	}
	if mr.Exists(config.LegacyTokenKey) {
		t.Error("legacy key not removed")
	}

	if err := a.Save(context.Background(), sampleCreds("new")); err != nil {
		t.Fatal(err)
	}
	if mr.Exists(config.LegacyTokenKey) || mr.Exists(config.LegacyAccessTokenKey) {
		t.Error("Save wrote legacy keys")
	}
}

func TestLegacyAdapter_EmptyEverywhere(t *testing.T) {
	mem := NewMemoryStore()
	fs := NewFileStore(filepath.Join(t.TempDir(), "creds.json"))
	a := NewLegacyAdapter(mem, fs, zerolog.Nop())
	if _, err := a.Load(context.Background()); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("Load = %v", err)
	}
}

func TestLegacyAdapter_ClearRemovesLegacyKeys(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Set(config.LegacyAccessTokenKey, "a")
	mr.Set("refreshToken", "r")
	a := NewLegacyAdapter(s, s, zerolog.Nop())
	_ = a.Save(context.Background(), sampleCreds("tok"))

	if err := a.Clear(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{config.StoreKey, config.LegacyAccessTokenKey, "refreshToken"} {
		if mr.Exists(k) {
			t.Errorf("%s still present", k)
		}
	}
}
