package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration assembled from the environment.
type Config struct {
	Env         string
	Port        string
	CORSOrigins string

	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig
	Rates RatesConfig

	TransferDebitPolicy        string
	TransferMaxConflictRetries int
}

type DBConfig struct {
	Driver          string // postgres | sqlite
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	SQLitePath      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN builds the postgres connection string.
func (c DBConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
}

type RatesConfig struct {
	APIURL   string
	APIKey   string
	Base     string
	Timeout  time.Duration
	CacheTTL time.Duration
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load reads the configuration from the environment, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Env:         GetEnv("ENV", "development"),
		Port:        GetEnv("PORT", "3000"),
		CORSOrigins: GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		DB: DBConfig{
			Driver:          strings.ToLower(GetEnv("DB_DRIVER", "postgres")),
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "banklet"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			SQLitePath:      GetEnv("SQLITE_PATH", "banklet.db"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:  GetEnv("REDIS_ENABLED", "true") == "true",
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:          GetEnv("JWT_SECRET", ""),
			AccessTokenTTL:  GetDurationEnv("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTokenTTL: GetDurationEnv("JWT_REFRESH_TTL", 7*24*time.Hour),
			Issuer:          GetEnv("JWT_ISSUER", "banklet-api"),
		},
		Rates: RatesConfig{
			APIURL:   GetEnv("RATES_API_URL", "https://v6.exchangerate-api.com"),
			APIKey:   GetEnv("RATES_API_KEY", ""),
			Base:     strings.ToUpper(GetEnv("RATES_BASE", "USD")),
			Timeout:  GetDurationEnv("RATES_TIMEOUT", 5*time.Second),
			CacheTTL: GetDurationEnv("RATES_CACHE_TTL", time.Hour),
		},
		TransferDebitPolicy:        strings.ToLower(GetEnv("TRANSFER_DEBIT_POLICY", "credited")),
		TransferMaxConflictRetries: GetIntEnv("TRANSFER_MAX_CONFLICT_RETRIES", 3),
	}

	if cfg.JWT.Secret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingJWTSecret
		}
		log.Printf("JWT_SECRET not set, using development secret")
		cfg.JWT.Secret = "banklet-dev-secret"
	}

	return cfg, nil
}

// IsProduction checks if the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable ("30s", "1h") or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
