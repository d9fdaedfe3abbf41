package config

import (
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	// APIBaseURL is the root of the storefront REST API, including any
	// path prefix (e.g. https://backendpickzo.onrender.com/api).
	APIBaseURL string
	// StateDir holds the persisted session and cart snapshot.
	StateDir    string
	HTTPTimeout time.Duration
	LogLevel    string

	// mockapi only
	MockAddr  string
	JWTSecret string
}

func Load() Config {
	return Config{
		APIBaseURL:  getEnv("PICKZO_API_URL", "http://localhost:5000/api"),
		StateDir:    getEnv("PICKZO_STATE_DIR", defaultStateDir()),
		HTTPTimeout: getEnvDuration("PICKZO_HTTP_TIMEOUT", 15*time.Second),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		MockAddr:    getEnv("MOCKAPI_ADDR", ":5000"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret"),
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pickzo"
	}
	return filepath.Join(home, ".pickzo")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
