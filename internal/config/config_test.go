package config

import (
	"reflect"
	"testing"
	"time"
)

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback int
		want     int
	}{
		{"parses integer", "42", 10, 42},
		{"uses fallback for empty", "", 10, 10},
		{"uses fallback for non-numeric", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("EXSTEM_TEST_INT", tc.value)
			if got := getEnvInt("EXSTEM_TEST_INT", tc.fallback); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"http://a.test", []string{"http://a.test"}},
		{" http://a.test , ,http://b.test ", []string{"http://a.test", "http://b.test"}},
	}
	for _, tc := range tests {
		if got := parseOrigins(tc.raw); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("parseOrigins(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://exam.example.com/api/")
	t.Setenv("TICK_INTERVAL_MS", "250")
	t.Setenv("CREDENTIAL_STORE", StoreRedis)
	t.Setenv("API_TIMEOUT_SECONDS", "5")
	t.Setenv("ATTEMPT_RETENTION_SECONDS", "60")

	cfg := Load()
	if cfg.APIBaseURL != "https://exam.example.com/api" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.TickInterval != 250*time.Millisecond {
		t.Errorf("TickInterval = %v", cfg.TickInterval)
	}
	if cfg.AttemptRetention != time.Minute {
		t.Errorf("AttemptRetention = %v", cfg.AttemptRetention)
	}
	if cfg.APITimeout != 5*time.Second {
		t.Errorf("APITimeout = %v", cfg.APITimeout)
	}
	if cfg.CredentialStore != StoreRedis {
		t.Errorf("CredentialStore = %q", cfg.CredentialStore)
	}
	if cfg.AgentPort != "8090" {
		t.Errorf("AgentPort default = %q", cfg.AgentPort)
	}
}
