// Package config centralizes environment-driven configuration so main stays
// lean.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the full server configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// AdminToken gates the catalog admin endpoints. Empty disables them.
	AdminToken string
	// AppEnv switches logging between dev (text) and prod (json) output.
	AppEnv string

	Tracking Tracking
	// DatabaseURL selects the PostgreSQL catalog store; empty falls back to
	// the in-memory store.
	DatabaseURL string
	Redis       Redis
}

// Tracking carries the code-generation parameters. The company prefixes are
// deployment configuration: real installations substitute their
// registrar-assigned values.
type Tracking struct {
	BarcodeCompanyPrefix string
	RFIDCompanyPrefix    string
	NFCBaseURL           string
	QRSize               int
	BatchChunkSize       int
}

// Redis configures the optional catalog cache. Addr empty disables caching.
type Redis struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:       getEnv("STOCKTAG_ADDR", ":8080"),
		AdminToken: getEnv("STOCKTAG_ADMIN_TOKEN", ""),
		AppEnv:     getEnv("APP_ENV", "dev"),
		Tracking: Tracking{
			// Placeholder prefixes; override with registrar-assigned values.
			BarcodeCompanyPrefix: getEnv("BARCODE_COMPANY_PREFIX", "123"),
			RFIDCompanyPrefix:    getEnv("RFID_COMPANY_PREFIX", "0123456"),
			NFCBaseURL:           getEnv("NFC_BASE_URL", "https://stocktag.example.com"),
			QRSize:               getEnvInt("QR_SIZE", 256),
			BatchChunkSize:       getEnvInt("BATCH_CHUNK_SIZE", 10),
		},
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			CacheTTL: getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
