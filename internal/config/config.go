package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Credential store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds all client configuration.
type Config struct {
	AgentPort  string
	GinMode    string
	LogLevel   string
	LogFormat  string
	APIBaseURL string
	APITimeout time.Duration
	// CredentialStore selects where the signed-in credentials live:
	// memory, file or redis.
	CredentialStore  string
	CredentialFile   string
	RedisURL         string
	TickInterval     time.Duration
	// AttemptRetention is how long a submitted attempt stays readable.
	AttemptRetention time.Duration
	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		AgentPort:        getEnv("AGENT_PORT", "8090"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "pretty"),
		APIBaseURL:       strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080/api"), "/"),
		APITimeout:       time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 30)) * time.Second,
		CredentialStore:  getEnv("CREDENTIAL_STORE", StoreFile),
		CredentialFile:   getEnv("CREDENTIAL_FILE", defaultCredentialFile()),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		TickInterval:     time.Duration(getEnvInt("TICK_INTERVAL_MS", 1000)) * time.Millisecond,
		AttemptRetention: time.Duration(getEnvInt("ATTEMPT_RETENTION_SECONDS", 300)) * time.Second,
		AllowedOrigins:   parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func defaultCredentialFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".exstem-credentials.json"
	}
	return dir + string(os.PathSeparator) + "exstem" + string(os.PathSeparator) + "credentials.json"
}
