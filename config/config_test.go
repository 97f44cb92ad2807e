package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSecrets(t *testing.T, secrets map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, value := range secrets {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0o600))
	}
	return dir
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"CI", "ENV", "DB_DRIVER", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_SSL_MODE", "JWT_SECRET", "REDIS_URL", "REDIS_DB", "S3_BUCKET_NAME", "CORS_ORIGINS",
		"FOOD_FACTS_URL", "MIGRATIONS_DIR", "TEST_DB_PASSWORD", "TEST_JWT_SECRET",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadConfigDevelopment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "development")
	t.Setenv("SECRETS_DIR", writeSecrets(t, map[string]string{
		"db_user":     "postgres",
		"db_password": "postgres",
		"jwt_secret":  "test-secret",
	}))
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_NAME", "nutriplan")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, "postgres", cfg.DBPassword)
	assert.Equal(t, "nutriplan", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECRETS_DIR", writeSecrets(t, map[string]string{"jwt_secret": "s"}))
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.Equal(t, defaultFoodFactsURL, cfg.FoodFactsURL)
	assert.Equal(t, []string{"http://localhost:5173", "http://frontend:5173"}, cfg.CORSOrigins)
}

func TestLoadConfigEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_DRIVER=sqlite\nJWT_SECRET=from-dotenv\nCORS_ORIGINS=https://a.example, https://b.example\n"), 0o600))
	t.Setenv("ENV_FILE", envFile)
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Cleanup(func() {
		os.Unsetenv("DB_DRIVER")
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("CORS_ORIGINS")
	})

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.JWTSecret)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadConfigCI(t *testing.T) {
	clearEnv(t)
	t.Setenv("CI", "true")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_NAME", "nutriplan")
	t.Setenv("TEST_DB_PASSWORD", "pw")
	t.Setenv("TEST_JWT_SECRET", "jwt")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "pw", cfg.DBPassword)
	assert.Equal(t, "jwt", cfg.JWTSecret)
}

func TestValidateConfigCollectsAllErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("SECRETS_DIR", t.TempDir())

	_, err := LoadConfig()
	require.Error(t, err)
	for _, field := range []string{"DB_HOST", "REDIS_URL", "S3_BUCKET_NAME", "db_password", "jwt_secret"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestValidateConfigRejectsUnknownDriver(t *testing.T) {
	clearEnv(t)
	cfg := &Config{DBDriver: "mysql", JWTSecret: "s"}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}
