package config

import "os"

// Storage backend selection for the collection stores.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

type Config struct {
	AppPort     string
	Backend     string
	DataDir     string
	DatabaseURL string
	JWTSecret   string
}

// Load reads the process environment into a Config. Defaults keep the
// server runnable with nothing configured: in-memory stores on :8080.
func Load() Config {
	cfg := Config{
		AppPort:     getenv("APP_PORT", "8080"),
		Backend:     getenv("STORE_BACKEND", BackendMemory),
		DataDir:     getenv("DATA_DIR", "data"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   getenv("JWT_SECRET", "dev-secret"),
	}
	// DATABASE_URL implies postgres unless the backend was set explicitly.
	if cfg.DatabaseURL != "" && os.Getenv("STORE_BACKEND") == "" {
		cfg.Backend = BackendPostgres
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
