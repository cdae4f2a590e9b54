// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
)

// Merge engine defaults.
const (
	DefaultExtendThresholdValue = 0.70
	DefaultEnumThresholdValue   = 0.50
)

// Processing safety cap defaults.
const (
	MaxSamplesValue    = 10000
	MaxInputBytesValue = 2_000_000
)

// Config holds all configuration for the MCP server and CLI defaults.
type Config struct {
	DefaultRootName string // ROOT_NAME_DEFAULT, default "RootStruct"
	DefaultStrategy string // STRATEGY_DEFAULT, default "optional"
	DefaultPackage  string // PACKAGE_DEFAULT, default "main"

	ExtendThreshold float64 // EXTEND_THRESHOLD, default 0.70
	EnumThreshold   float64 // ENUM_THRESHOLD, default 0.50

	FoldWorkers         int // FOLD_WORKERS, default 8
	SchemaCacheMaxItems int // SCHEMA_CACHE_MAX_ITEMS, default 1024

	// Processing safety caps
	MaxSamples    int // MAX_SAMPLES, default 10000
	MaxInputBytes int // MAX_INPUT_BYTES, default 2_000_000

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 3
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		DefaultRootName: getEnvString("ROOT_NAME_DEFAULT", "RootStruct"),
		DefaultStrategy: getEnvString("STRATEGY_DEFAULT", "optional"),
		DefaultPackage:  getEnvString("PACKAGE_DEFAULT", "main"),

		ExtendThreshold: getEnvFloat("EXTEND_THRESHOLD", DefaultExtendThresholdValue),
		EnumThreshold:   getEnvFloat("ENUM_THRESHOLD", DefaultEnumThresholdValue),

		FoldWorkers:         getEnvInt("FOLD_WORKERS", 8),
		SchemaCacheMaxItems: getEnvInt("SCHEMA_CACHE_MAX_ITEMS", 1024),

		MaxSamples:    getEnvInt("MAX_SAMPLES", MaxSamplesValue),
		MaxInputBytes: getEnvInt("MAX_INPUT_BYTES", MaxInputBytesValue),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
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

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
