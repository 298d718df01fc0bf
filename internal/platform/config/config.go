package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tripmatch-app/tripmatch-api/internal/domain"
)

// Config is the deployment-provided runtime configuration.
type Config struct {
	Port           string
	StorageBackend string
	DatabaseURL    string
	MigrateOnStart bool

	ShutdownTimeout time.Duration

	// AdminUserIDs seeds moderation grants for the memory backend. With
	// postgres, grants live in admin_users and are managed out of band.
	AdminUserIDs []domain.UserID
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Port:            getenv("PORT", "8080"),
		StorageBackend:  getenv("STORAGE_BACKEND", "memory"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MigrateOnStart:  getenv("MIGRATE_ON_START", "true") == "true",
		ShutdownTimeout: 10 * time.Second,
	}

	if cfg.StorageBackend != "memory" && cfg.StorageBackend != "postgres" {
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be memory or postgres, got %q", cfg.StorageBackend)
	}
	if cfg.StorageBackend == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT must be a duration (e.g. 10s): %w", err)
		}
		cfg.ShutdownTimeout = d
	}

	for _, raw := range strings.Split(os.Getenv("ADMIN_USER_IDS"), ",") {
		if id := strings.TrimSpace(raw); id != "" {
			cfg.AdminUserIDs = append(cfg.AdminUserIDs, domain.UserID(id))
		}
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
