package config

import (
	"strings"
	"time"

	"github.com/riweirui/ntirpc/internal/bytesize"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyDumpDefaults(&cfg.Dump)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// applyDumpDefaults sets dump command defaults.
func applyDumpDefaults(cfg *DumpConfig) {
	if cfg.Format == "" {
		cfg.Format = "table"
	}
	// Default read cap keeps table rendering bounded. Reading without a cap
	// is a per-run decision (--max-bytes 0), not a configuration default.
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 64 * bytesize.KiB
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	// WaitTimeout zero value means wait indefinitely - no default needed
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
