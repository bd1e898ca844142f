// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const secretKeyLen = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr string
	DBPath     string
	// SecretKey is nil when ADSPANEL_SECRET_KEY is unset; stored credentials
	// are then written in plaintext.
	SecretKey     []byte
	BackendURL    string
	AdsAPIURL     string
	AdsAPIVersion string
	// HTTPTimeout bounds every outbound request. Zero disables the timeout.
	HTTPTimeout time.Duration
	LogLevel    slog.Level
}

// Load reads configuration from environment variables and returns a validated
// Config. Variables missing from the environment are taken from the file named
// by ADSPANEL_ENV_FILE (default .env) when it exists; the real environment
// always wins.
//
// Optional variables with defaults: ADSPANEL_LISTEN_ADDR (127.0.0.1:8080),
// ADSPANEL_DB_PATH (adspanel.db), ADSPANEL_BACKEND_URL (http://127.0.0.1:8080),
// ADSPANEL_ADS_API_URL and ADSPANEL_ADS_API_VERSION (adapter defaults),
// ADSPANEL_HTTP_TIMEOUT (30s), ADSPANEL_LOG_LEVEL (info).
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	cfg := &Config{
		ListenAddr:    envOr("ADSPANEL_LISTEN_ADDR", "127.0.0.1:8080"),
		DBPath:        envOr("ADSPANEL_DB_PATH", "adspanel.db"),
		BackendURL:    strings.TrimRight(envOr("ADSPANEL_BACKEND_URL", "http://127.0.0.1:8080"), "/"),
		AdsAPIURL:     os.Getenv("ADSPANEL_ADS_API_URL"),
		AdsAPIVersion: os.Getenv("ADSPANEL_ADS_API_VERSION"),
		HTTPTimeout:   30 * time.Second,
		LogLevel:      slog.LevelInfo,
	}

	if v, ok := os.LookupEnv("ADSPANEL_SECRET_KEY"); ok && v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("ADSPANEL_SECRET_KEY is not valid hex: %w", err)
		}
		if len(key) != secretKeyLen {
			return nil, fmt.Errorf("ADSPANEL_SECRET_KEY must decode to %d bytes, got %d", secretKeyLen, len(key))
		}
		cfg.SecretKey = key
	}

	if v, ok := os.LookupEnv("ADSPANEL_HTTP_TIMEOUT"); ok && v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("ADSPANEL_HTTP_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed < 0 {
			return nil, fmt.Errorf("ADSPANEL_HTTP_TIMEOUT must not be negative, got %s", parsed)
		}
		cfg.HTTPTimeout = parsed
	}

	if v, ok := os.LookupEnv("ADSPANEL_LOG_LEVEL"); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("ADSPANEL_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	return cfg, nil
}

// loadEnvFile merges the env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func loadEnvFile() error {
	path := envOr("ADSPANEL_ENV_FILE", ".env")
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
