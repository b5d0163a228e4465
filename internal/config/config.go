package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Signature memo (SQLite file; empty keeps the memo in memory)
	MemoPath    string
	StatsWindow time.Duration

	// Worker pool
	WorkerCount       int
	MaxQueueSize      int
	MaxConcurrentSign int

	// Request limits
	MaxUploadBytes     int64
	MaxExpressionBytes int

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("FREEFORM_API_KEY"),

		MemoPath:    os.Getenv("MEMO_PATH"),
		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		WorkerCount:       envInt("WORKER_COUNT", 4),
		MaxQueueSize:      envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentSign: envInt("MAX_CONCURRENT_SIGN", 8),

		MaxUploadBytes:     envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB
		MaxExpressionBytes: envInt("MAX_EXPRESSION_BYTES", 4096),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentSign <= 0 {
		cfg.MaxConcurrentSign = 8
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.MaxExpressionBytes <= 0 {
		cfg.MaxExpressionBytes = 4096
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("FREEFORM_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
