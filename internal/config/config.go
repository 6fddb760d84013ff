package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	RecordStore  RecordStoreConfig
	AuthProvider AuthProviderConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// RecordStoreConfig selects and configures the record-store backend.
type RecordStoreConfig struct {
	// Driver is one of "http", "postgres", "memory".
	Driver         string
	BaseURL        string
	SDKKey         string
	TimeoutSeconds int

	// Postgres driver settings.
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// AuthProviderConfig points at the external authentication service.
type AuthProviderConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr                string
	Password            string
	DB                  int
	UserCacheTTLSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// NotificationConfig holds webhook notification settings.
type NotificationConfig struct {
	WebhookURL     string
	TimeoutSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "bloodbound-profile-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		RecordStore: RecordStoreConfig{
			Driver:         getEnv("RECORD_STORE_DRIVER", "http"),
			BaseURL:        os.Getenv("RECORD_STORE_BASE_URL"),
			SDKKey:         os.Getenv("RECORD_STORE_SDK_KEY"),
			TimeoutSeconds: getEnvAsInt("RECORD_STORE_TIMEOUT_SECONDS", 10),
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		AuthProvider: AuthProviderConfig{
			BaseURL:        os.Getenv("AUTH_PROVIDER_BASE_URL"),
			TimeoutSeconds: getEnvAsInt("AUTH_PROVIDER_TIMEOUT_SECONDS", 10),
		},
		Redis: RedisConfig{
			Addr:                getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:            os.Getenv("REDIS_PASSWORD"),
			DB:                  redisDB,
			UserCacheTTLSeconds: getEnvAsInt("REDIS_USER_CACHE_TTL_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Notification: NotificationConfig{
			WebhookURL:     getEnv("NOTIFY_WEBHOOK_URL", ""),
			TimeoutSeconds: getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 5),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// UserCacheTTL returns the listing cache TTL duration.
func (r RedisConfig) UserCacheTTL() time.Duration {
	if r.UserCacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(r.UserCacheTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
