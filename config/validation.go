package config

import (
	"fmt"
)

// ValidateConfig checks that required settings are present for the current
// environment. Development and test fall back to a static JWT secret so the
// service can start without any environment prepared.
func ValidateConfig(cfg *Config) error {
	if cfg.JWTSecret == "" {
		if IsProduction() {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "insecure-dev-secret"
	}

	if IsProduction() && cfg.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required in production")
	}

	switch cfg.StorageBackend {
	case "s3", "local":
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return nil
}
