package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Secret sources
const (
	SecretSourceLocal     = "local"
	SecretSourceRandomOrg = "randomorg"
)

// DefaultSQLitePath is used when STORAGE_TYPE=sqlite and DATABASE_URL is unset
const DefaultSQLitePath = "mastermind.db"

// Config holds the server configuration read from .env and the environment.
type Config struct {
	Port     int    `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	StorageType string `mapstructure:"STORAGE_TYPE"`
	RedisURL    string `mapstructure:"REDIS_URL"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	TokenTTL  time.Duration `mapstructure:"TOKEN_TTL"`

	SecretSource  string        `mapstructure:"SECRET_SOURCE"`
	RandomOrgURL  string        `mapstructure:"RANDOM_ORG_URL"`
	SecretTimeout time.Duration `mapstructure:"SECRET_TIMEOUT"`
	SecretRetries int           `mapstructure:"SECRET_RETRIES"`
}

var defaults = map[string]any{
	"PORT":           8080,
	"LOG_LEVEL":      "info",
	"STORAGE_TYPE":   StorageMemory,
	"REDIS_URL":      "",
	"DATABASE_URL":   "",
	"JWT_SECRET":     "",
	"TOKEN_TTL":      "24h",
	"SECRET_SOURCE":  SecretSourceLocal,
	"RANDOM_ORG_URL": "https://www.random.org/integers/",
	"SECRET_TIMEOUT": "5s",
	"SECRET_RETRIES": 1,
}

// Load reads configuration from ./.env and the environment.
func Load() (Config, error) {
	return LoadFrom(".")
}

// LoadFrom reads configuration from dir/.env (if present) and the environment.
// Environment variables take precedence over the file.
func LoadFrom(dir string) (Config, error) {
	envFile := filepath.Join(dir, ".env")

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if _, err := os.Stat(envFile); err == nil {
		// Export to the process too, for anything reading os.Getenv directly
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	cfg.StorageType = strings.ToLower(strings.TrimSpace(cfg.StorageType))
	cfg.SecretSource = strings.ToLower(strings.TrimSpace(cfg.SecretSource))
	if cfg.StorageType == StorageSQLite && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = DefaultSQLitePath
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected backends have what they need
func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for redis storage"))
		}
	case StoragePostgres, StorageSQLite:
		if c.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("DATABASE_URL is required for %s storage", c.StorageType))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType))
	}
	if c.StorageType != StorageMemory && c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required for persistent storage"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}

	switch c.SecretSource {
	case SecretSourceLocal:
	case SecretSourceRandomOrg:
		if c.RandomOrgURL == "" {
			errs = append(errs, errors.New("RANDOM_ORG_URL is required for the randomorg secret source"))
		}
		if c.SecretTimeout <= 0 {
			errs = append(errs, errors.New("SECRET_TIMEOUT must be positive"))
		}
		if c.SecretRetries < 0 {
			errs = append(errs, errors.New("SECRET_RETRIES must not be negative"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SECRET_SOURCE %q", c.SecretSource))
	}

	return errors.Join(errs...)
}

// Level returns the parsed log level, falling back to info
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
