package config

import (
	"os"
	"strconv"
	"time"

	infraconfig "github.com/koop46/crypto-prices/internal/infrastructure/config"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	Port     string
	// Upstream price API
	APIKey       string
	APIBaseURL   string
	FetchTimeout time.Duration
	// Refresh cadence
	RefreshInterval time.Duration
	// Storage
	Storage     string
	DataFile    string
	DatabaseURL string
	// Refresh guard (manual-trigger dedup)
	RefreshGuard    string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RefreshGuardTTL time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func secondsEnv(key string, def time.Duration) time.Duration {
	s := atoiDef(getEnv(key, ""), int(def/time.Second))
	return time.Duration(s) * time.Second
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:             getEnv("ENV", "local"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Port:            getEnv("PORT", infraconfig.DefaultHTTPPort),
		APIKey:          getEnv("API_KEY", ""),
		APIBaseURL:      getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com"),
		FetchTimeout:    secondsEnv("FETCH_TIMEOUT_S", infraconfig.DefaultFetchTimeout),
		RefreshInterval: secondsEnv("REFRESH_INTERVAL_S", infraconfig.DefaultRefreshInterval),
		Storage:         getEnv("STORAGE", "csv"),
		DataFile:        getEnv("DATA_FILE", "crypto_prices.csv"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RefreshGuard:    getEnv("REFRESH_GUARD", "none"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         atoiDef(getEnv("REDIS_DB", "0"), 0),
		RefreshGuardTTL: time.Duration(atoiDef(getEnv("REFRESH_GUARD_TTL_MS", "30000"), 30000)) * time.Millisecond,
	}
}
