package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	MigrationsDir string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Progress photo storage
	S3Bucket  string
	AWSRegion string

	// Public food database
	FoodFactsURL string
}

const (
	defaultFoodFactsURL  = "https://world.openfoodfacts.org"
	defaultMigrationsDir = "migrations"
	defaultCORSOrigins   = "http://localhost:5173,http://frontend:5173"
)

// secretNames are read from the secrets directory. Anything not found there
// falls back to the upper-cased environment variable.
var secretNames = []string{
	"db_user",
	"db_password",
	"jwt_secret",
	"redis_password",
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	applyDefaults(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig reads everything from environment variables. Secrets use the
// TEST_ prefixed variables the CI pipeline provides.
func loadCIConfig(cfg *Config) {
	loadPlainSettings(cfg)
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	cfg.JWTSecret = os.Getenv("TEST_JWT_SECRET")
	cfg.RedisPassword = os.Getenv("TEST_REDIS_PASSWORD")
	if url := os.Getenv("TEST_REDIS_URL"); url != "" {
		cfg.RedisURL = url
	}
}

// loadDevConfig loads a .env file when present, then secrets with an
// environment fallback.
func loadDevConfig(cfg *Config) error {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read %s: %w", envFile, err)
		}
		log.Printf("[Config] no %s file, using environment only", envFile)
	}

	loadPlainSettings(cfg)
	secrets := readSecrets()
	cfg.DBUser = secrets["db_user"]
	cfg.DBPassword = secrets["db_password"]
	cfg.JWTSecret = secrets["jwt_secret"]
	cfg.RedisPassword = secrets["redis_password"]
	return nil
}

// loadProdConfig reads secrets only from the secrets directory.
func loadProdConfig(cfg *Config) {
	loadPlainSettings(cfg)
	cfg.DBUser = readSecret("db_user")
	cfg.DBPassword = readSecret("db_password")
	cfg.JWTSecret = readSecret("jwt_secret")
	cfg.RedisPassword = readSecret("redis_password")
}

func loadPlainSettings(cfg *Config) {
	cfg.ServerPort = os.Getenv("SERVER_PORT")
	cfg.ServerHost = os.Getenv("SERVER_HOST")
	cfg.DBDriver = os.Getenv("DB_DRIVER")
	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = os.Getenv("DB_PORT")
	cfg.DBName = os.Getenv("DB_NAME")
	cfg.DBSSLMode = os.Getenv("DB_SSL_MODE")
	cfg.MigrationsDir = os.Getenv("MIGRATIONS_DIR")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = os.Getenv("REDIS_PORT")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.S3Bucket = os.Getenv("S3_BUCKET_NAME")
	cfg.AWSRegion = os.Getenv("AWS_REGION")
	cfg.FoodFactsURL = os.Getenv("FOOD_FACTS_URL")
	cfg.CORSOrigins = splitList(os.Getenv("CORS_ORIGINS"))

	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		} else {
			log.Printf("[Config] ignoring invalid REDIS_DB %q", v)
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = "postgres"
	}
	if cfg.DBSSLMode == "" {
		cfg.DBSSLMode = "disable"
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = defaultMigrationsDir
	}
	if cfg.FoodFactsURL == "" {
		cfg.FoodFactsURL = defaultFoodFactsURL
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = splitList(defaultCORSOrigins)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func secretsDir() string {
	dir := os.Getenv("SECRETS_DIR")
	if dir == "" {
		dir = "/run/secrets"
	}
	return dir
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	if data, err := os.ReadFile(filepath.Join(secretsDir(), name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func readSecrets() map[string]string {
	secrets := make(map[string]string, len(secretNames))
	for _, name := range secretNames {
		value := readSecret(name)
		if value == "" {
			value = os.Getenv(strings.ToUpper(name))
		}
		secrets[name] = value
	}
	return secrets
}
