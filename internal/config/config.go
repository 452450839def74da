package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/recipebox/recipebox-go/internal/crypto"
)

const (
	defaultSessionSecret = "dev-secret-change-in-production"
	defaultDatabaseDSN   = "root:password@tcp(127.0.0.1:3306)/recipebox?parseTime=true"
)

// Storage backends.
const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	Storage     string
	DatabaseDSN string
	AutoMigrate bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionSecret     string
	SessionTTL        time.Duration
	SessionCookieName string
	CookieSecure      bool

	BcryptCost    int
	AuthRateLimit float64
	AuthRateBurst int
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var errs []string
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	cfg := Config{
		Port:              getEnv("PORT", "5555"),
		Env:               getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Storage:           strings.ToLower(getEnv("STORAGE", StorageMySQL)),
		DatabaseDSN:       getEnv("DATABASE_DSN", defaultDatabaseDSN),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		SessionSecret:     getEnv("SESSION_SECRET", defaultSessionSecret),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "session"),
	}

	var err error
	cfg.AutoMigrate, err = getEnvBool("AUTO_MIGRATE", true)
	collect(err)
	cfg.RedisDB, err = getEnvInt("REDIS_DB", 0)
	collect(err)
	cfg.SessionTTL, err = getEnvDuration("SESSION_TTL", 24*time.Hour)
	collect(err)
	cfg.CookieSecure, err = getEnvBool("COOKIE_SECURE", false)
	collect(err)
	cfg.BcryptCost, err = getEnvInt("BCRYPT_COST", crypto.DefaultCost)
	collect(err)
	cfg.AuthRateLimit, err = getEnvFloat("AUTH_RATE_LIMIT", 5)
	collect(err)
	cfg.AuthRateBurst, err = getEnvInt("AUTH_RATE_BURST", 10)
	collect(err)

	if cfg.Env == "production" && cfg.SessionSecret == defaultSessionSecret {
		errs = append(errs, "SESSION_SECRET must be set in production environment")
	}
	if cfg.BcryptCost < crypto.MinCost || cfg.BcryptCost > crypto.MaxCost {
		errs = append(errs, fmt.Sprintf("BCRYPT_COST must be between %d and %d", crypto.MinCost, crypto.MaxCost))
	}
	if cfg.Storage != StorageMySQL && cfg.Storage != StorageMemory {
		errs = append(errs, fmt.Sprintf("STORAGE must be %q or %q, got %q", StorageMySQL, StorageMemory, cfg.Storage))
	}
	if cfg.SessionTTL <= 0 {
		errs = append(errs, "SESSION_TTL must be positive")
	}
	if cfg.AuthRateLimit <= 0 {
		errs = append(errs, "AUTH_RATE_LIMIT must be positive")
	}
	if cfg.AuthRateBurst <= 0 {
		errs = append(errs, "AUTH_RATE_BURST must be positive")
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// MigrateConfig is the subset of settings the migration tool needs.
type MigrateConfig struct {
	Env         string
	LogLevel    string
	DatabaseDSN string
}

// LoadMigrate reads only the database and logging settings. It does not validate
// server-only settings such as SESSION_SECRET.
func LoadMigrate() MigrateConfig {
	return MigrateConfig{
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseDSN: getEnv("DATABASE_DSN", defaultDatabaseDSN),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, v)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", key, v)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %q is not a boolean", key, v)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a duration", key, v)
	}
	return d, nil
}
