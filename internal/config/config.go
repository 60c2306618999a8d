package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatabaseURL string
	HTTPPort    string
	AdminAPIKey string

	// Fixed settlement beneficiaries.
	CreatorIdentity  string
	PlatformIdentity string

	// Fee percentages applied with truncating integer division.
	CreatorFeePercent  int64
	PlatformFeePercent int64

	MaxBatchSize int

	// Number of fractional digits when rendering base units in reports.
	DisplayDigits int

	ReportWorkerInterval time.Duration
	ReportExportDir      string
	SheetsSpreadsheetID  string
	SheetsCredentials    string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		DatabaseURL:          envOrDefaultWarn("DATABASE_URL", ""),
		HTTPPort:             envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey:          envOrDefault("ADMIN_API_KEY", ""),
		CreatorIdentity:      envOrDefaultWarn("CREATOR_IDENTITY", ""),
		PlatformIdentity:     envOrDefaultWarn("PLATFORM_IDENTITY", ""),
		CreatorFeePercent:    envOrDefaultInt64("CREATOR_FEE_PERCENT", 5),
		PlatformFeePercent:   envOrDefaultInt64("PLATFORM_FEE_PERCENT", 2),
		MaxBatchSize:         envOrDefaultInt("MAX_BATCH_SIZE", 10),
		DisplayDigits:        envOrDefaultInt("DISPLAY_DIGITS", 7),
		ReportWorkerInterval: envOrDefaultDuration("REPORT_WORKER_INTERVAL", 24*time.Hour),
		ReportExportDir:      envOrDefault("REPORT_EXPORT_DIR", ""),
		SheetsSpreadsheetID:  envOrDefault("SHEETS_SPREADSHEET_ID", ""),
		SheetsCredentials:    envOrDefault("SHEETS_CREDENTIALS_JSON", ""),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultInt64(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
