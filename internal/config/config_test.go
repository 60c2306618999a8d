package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Clear any env vars that might affect defaults
	for _, key := range []string{"DATABASE_URL", "HTTP_PORT", "CREATOR_FEE_PERCENT", "PLATFORM_FEE_PERCENT", "MAX_BATCH_SIZE", "REPORT_WORKER_INTERVAL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.CreatorFeePercent != 5 {
		t.Errorf("CreatorFeePercent = %d, want 5", cfg.CreatorFeePercent)
	}
	if cfg.PlatformFeePercent != 2 {
		t.Errorf("PlatformFeePercent = %d, want 2", cfg.PlatformFeePercent)
	}
	if cfg.MaxBatchSize != 10 {
		t.Errorf("MaxBatchSize = %d, want 10", cfg.MaxBatchSize)
	}
	if cfg.ReportWorkerInterval != 24*time.Hour {
		t.Errorf("ReportWorkerInterval = %v, want 24h", cfg.ReportWorkerInterval)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/testdb")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CREATOR_IDENTITY", "creator-wallet")
	t.Setenv("PLATFORM_IDENTITY", "platform-wallet")
	t.Setenv("CREATOR_FEE_PERCENT", "7")
	t.Setenv("REPORT_WORKER_INTERVAL", "1h")

	cfg := Load()

	if cfg.DatabaseURL != "postgres://localhost/testdb" {
		t.Errorf("DatabaseURL = %q, want override", cfg.DatabaseURL)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if cfg.CreatorIdentity != "creator-wallet" {
		t.Errorf("CreatorIdentity = %q, want creator-wallet", cfg.CreatorIdentity)
	}
	if cfg.PlatformIdentity != "platform-wallet" {
		t.Errorf("PlatformIdentity = %q, want platform-wallet", cfg.PlatformIdentity)
	}
	if cfg.CreatorFeePercent != 7 {
		t.Errorf("CreatorFeePercent = %d, want 7", cfg.CreatorFeePercent)
	}
	if cfg.ReportWorkerInterval != time.Hour {
		t.Errorf("ReportWorkerInterval = %v, want 1h", cfg.ReportWorkerInterval)
	}
}

func TestLoadInvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("MAX_BATCH_SIZE", "not-a-number")
	t.Setenv("REPORT_WORKER_INTERVAL", "invalid-duration")

	cfg := Load()

	if cfg.MaxBatchSize != 10 {
		t.Errorf("MaxBatchSize = %d, want default 10 on invalid input", cfg.MaxBatchSize)
	}
	if cfg.ReportWorkerInterval != 24*time.Hour {
		t.Errorf("ReportWorkerInterval = %v, want default 24h on invalid input", cfg.ReportWorkerInterval)
	}
}
