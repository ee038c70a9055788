package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string   `mapstructure:"server_port"`
	ServerHost  string   `mapstructure:"server_host"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	LogMode     string   `mapstructure:"log_mode"`

	// Database configuration
	DBDriver   string `mapstructure:"db_driver"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSSLMode  string `mapstructure:"db_ssl_mode"`
	SQLitePath string `mapstructure:"sqlite_path"`

	// Redis configuration
	RedisHost     string `mapstructure:"redis_host"`
	RedisPort     string `mapstructure:"redis_port"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisURL      string `mapstructure:"redis_url"`

	// JWT configuration
	JWTSecret string `mapstructure:"jwt_secret"`

	// Analysis
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`

	// Reference data snapshots published to S3
	AWSRegion       string `mapstructure:"aws_region"`
	ReferenceBucket string `mapstructure:"reference_bucket"`
	ReferenceKey    string `mapstructure:"reference_key"`

	// Food recognition endpoint
	RecognitionURL        string        `mapstructure:"recognition_url"`
	RecognitionTimeout    time.Duration `mapstructure:"recognition_timeout"`
	RecognitionMaxRetries int           `mapstructure:"recognition_max_retries"`
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

var defaults = map[string]interface{}{
	"server_port":             "8080",
	"server_host":             "0.0.0.0",
	"cors_origins":            []string{"http://localhost:3000", "http://localhost:5173"},
	"log_mode":                "development",
	"db_driver":               "postgres",
	"db_host":                 "localhost",
	"db_port":                 "5432",
	"db_user":                 "postgres",
	"db_password":             "",
	"db_name":                 "nutrasafe",
	"db_ssl_mode":             "disable",
	"sqlite_path":             "nutrasafe.db",
	"redis_host":              "localhost",
	"redis_port":              "6379",
	"redis_password":          "",
	"redis_db":                0,
	"redis_url":               "",
	"jwt_secret":              "",
	"cache_ttl":               24 * time.Hour,
	"rate_limit_requests":     60,
	"rate_limit_window":       time.Minute,
	"aws_region":              "eu-west-2",
	"reference_bucket":        "",
	"reference_key":           "reference/latest.yaml",
	"recognition_url":         "",
	"recognition_timeout":     30 * time.Second,
	"recognition_max_retries": 2,
}

// secretFiles are read from SECRETS_DIR and override environment values.
var secretFiles = []string{
	"db_user",
	"db_password",
	"jwt_secret",
	"redis_password",
	"db_host",
	"db_port",
	"db_name",
	"db_ssl_mode",
	"redis_host",
	"redis_port",
	"redis_url",
	"server_port",
	"server_host",
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	v := newViper()

	// Load configuration based on environment
	switch env {
	case CI:
		loadCIConfig(v)
	case Development, Test:
		loadSecrets(v, false)
	case Production:
		v.SetDefault("log_mode", "production")
		loadSecrets(v, true)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	return v
}

// loadCIConfig takes sensitive values from the TEST_* variables GitHub Actions injects.
func loadCIConfig(v *viper.Viper) {
	_ = v.BindEnv("db_password", "TEST_DB_PASSWORD", "DB_PASSWORD")
	_ = v.BindEnv("jwt_secret", "TEST_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("redis_password", "TEST_REDIS_PASSWORD", "REDIS_PASSWORD")
	_ = v.BindEnv("redis_url", "TEST_REDIS_URL", "REDIS_URL")
}

// loadSecrets overlays Docker secrets onto the environment. In production every secret
// must come from a file, so environment values for them are discarded.
func loadSecrets(v *viper.Viper, strict bool) {
	for _, name := range secretFiles {
		if value := readSecret(name); value != "" {
			v.Set(name, value)
		} else if strict && isSensitive(name) {
			v.Set(name, "")
		}
	}
}

func isSensitive(name string) bool {
	switch name {
	case "db_password", "jwt_secret", "redis_password":
		return true
	}
	return false
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
