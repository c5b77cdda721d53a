// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/usestring/prisma-infer/internal/logging"
	"github.com/usestring/prisma-infer/pkg/prisma"
)

// Defaults
const (
	DefaultResultCacheMaxItems = 128
	DefaultBatchWorkers        = 4
	DefaultMaxInputBytes       = 32 << 20 // 32 MiB
	DefaultWatchDebounceMs     = 300
)

// Config holds all configuration for the CLI and the MCP server.
type Config struct {
	// Inference defaults
	NormalizeArrays bool // INFER_NORMALIZE_ARRAYS, default true
	MaxDepth        int  // INFER_MAX_DEPTH, default 4
	CamelCase       bool // INFER_CAMEL_CASE, default false

	ResultCacheMaxItems int           // RESULT_CACHE_MAX_ITEMS, default 128
	BatchWorkers        int           // BATCH_WORKERS, default 4
	MaxInputBytes       int64         // MAX_INPUT_BYTES, default 32 MiB
	WatchDebounce       time.Duration // WATCH_DEBOUNCE_MS, default 300ms

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, text or json, default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		NormalizeArrays: getEnvBool("INFER_NORMALIZE_ARRAYS", true),
		MaxDepth:        getEnvInt("INFER_MAX_DEPTH", prisma.DefaultMaxDepth),
		CamelCase:       getEnvBool("INFER_CAMEL_CASE", false),

		ResultCacheMaxItems: getEnvInt("RESULT_CACHE_MAX_ITEMS", DefaultResultCacheMaxItems),
		BatchWorkers:        getEnvInt("BATCH_WORKERS", DefaultBatchWorkers),
		MaxInputBytes:       int64(getEnvInt("MAX_INPUT_BYTES", DefaultMaxInputBytes)),
		WatchDebounce:       getEnvDurationMs("WATCH_DEBOUNCE_MS", DefaultWatchDebounceMs),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// InferOptions returns the inference options configured by the environment.
func (c *Config) InferOptions() *prisma.Options {
	return &prisma.Options{
		NormalizeArrays: c.NormalizeArrays,
		MaxDepth:        c.MaxDepth,
		CamelCaseFields: c.CamelCase,
	}
}

// Logging returns the logging configuration.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		FilePath:   c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		MaxAgeDays: c.LogMaxAgeDays,
		Compress:   c.LogCompress,
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
