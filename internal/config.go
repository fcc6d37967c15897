package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16
	API      APIConfig
	Store    StoreConfig
}

// APIConfig holds the remote bookstore API connection settings.
type APIConfig struct {
	// BaseURL is the backend root, e.g. "http://localhost:8000".
	BaseURL string

	// TimeoutSeconds bounds every request. The backend specifies no
	// timeout of its own; a timed-out fetch is treated as a normal
	// fetch failure.
	TimeoutSeconds uint16
}

// StoreConfig holds the persisted client-state configuration.
// Provider selects the backend: "file" keeps one file per key under Path,
// "sqlite" keeps everything in the single database at DSN.
type StoreConfig struct {
	Provider string
	Path     string
	DSN      string
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 3000),
		API: APIConfig{
			BaseURL:        getEnv("API_BASE_URL", "http://localhost:8000"),
			TimeoutSeconds: getEnvInt("API_TIMEOUT_SECONDS", 10),
		},
		Store: StoreConfig{
			Provider: getEnv("STORE_PROVIDER", "file"),
			Path:     getEnv("STORE_PATH", "./data"),
			DSN:      getEnv("STORE_DSN", "./data/chapters.db"),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL must not be empty")
	}

	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = 10
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}
