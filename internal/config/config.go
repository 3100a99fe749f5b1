package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPPort           string
	StoreBackend       string
	PostgresDSN        string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	StoreRetryAttempts int
	StoreRetryBase     time.Duration
	ReconcileInterval  time.Duration
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxIdle      time.Duration
	DBConnMaxLife      time.Duration
	RequestTimeout     time.Duration
}

const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

func Load() *Config {
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		StoreBackend:       getEnv("STORE_BACKEND", BackendPostgres),
		PostgresDSN:        getEnv("DATABASE_URL", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getInt("REDIS_DB", 0),
		StoreRetryAttempts: getInt("STORE_RETRY_ATTEMPTS", 3),
		StoreRetryBase:     getDuration("STORE_RETRY_BASE_DELAY", 100*time.Millisecond),
		ReconcileInterval:  getDuration("RECONCILE_INTERVAL", 5*time.Minute),
		DBMaxOpenConns:     getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:     getInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxIdle:      getDuration("DB_CONN_MAX_IDLE", 5*time.Minute),
		DBConnMaxLife:      getDuration("DB_CONN_MAX_LIFE", 30*time.Minute),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 10*time.Second),
	}

	switch cfg.StoreBackend {
	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			log.Fatal("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	case BackendRedis:
		if cfg.RedisAddr == "" {
			log.Fatal("REDIS_ADDR is required when STORE_BACKEND=redis")
		}
	default:
		log.Fatalf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
