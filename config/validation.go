package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequiredSettings []string
	RequiredSecrets  []string
}

var requirements = map[Environment]ConfigRequirements{
	Development: {
		RequiredSecrets: []string{"jwt_secret"},
	},
	Test: {
		RequiredSecrets: []string{"jwt_secret"},
	},
	CI: {
		RequiredSettings: []string{"DB_HOST", "DB_PORT", "DB_NAME"},
		RequiredSecrets:  []string{"db_password", "jwt_secret"},
	},
	Production: {
		RequiredSettings: []string{"DB_HOST", "DB_PORT", "DB_NAME", "REDIS_URL", "S3_BUCKET_NAME"},
		RequiredSecrets:  []string{"db_user", "db_password", "jwt_secret"},
	},
}

// settingValue maps a requirement name onto the loaded value.
func settingValue(cfg *Config, name string) string {
	switch name {
	case "DB_HOST":
		return cfg.DBHost
	case "DB_PORT":
		return cfg.DBPort
	case "DB_NAME":
		return cfg.DBName
	case "REDIS_URL":
		return cfg.RedisURL
	case "S3_BUCKET_NAME":
		return cfg.S3Bucket
	case "db_user":
		return cfg.DBUser
	case "db_password":
		return cfg.DBPassword
	case "jwt_secret":
		return cfg.JWTSecret
	}
	return ""
}

// ValidateConfig checks the loaded configuration against the requirements of
// the current environment and reports every problem at once.
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	var errs []string
	for _, name := range reqs.RequiredSettings {
		if settingValue(cfg, name) == "" {
			errs = append(errs, ValidationError{Field: name, Message: "required setting is not set"}.Error())
		}
	}
	for _, name := range reqs.RequiredSecrets {
		if settingValue(cfg, name) == "" {
			errs = append(errs, ValidationError{Field: name, Message: "required secret is not set"}.Error())
		}
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: "must be postgres or sqlite"}.Error())
	}
	if cfg.DBDriver == "postgres" && env != Production && env != CI && cfg.DBHost == "" {
		errs = append(errs, ValidationError{Field: "DB_HOST", Message: "required for postgres"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
