package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultConfigTemplate is the commented starter config written by
// `xdrtool config init`. Values mirror GetDefaultConfig; keep the two in sync.
const defaultConfigTemplate = `# xdrtool Configuration File
#
# Any value here can be overridden with an XDRTOOL_* environment variable
# (e.g. XDRTOOL_LOGGING_LEVEL=DEBUG) or with a command-line flag.

logging:
  # Minimum level to output: DEBUG, INFO, WARN, ERROR
  level: INFO

  # Output format: text, json
  format: text

  # Where logs are written: stderr, stdout, or a file path.
  # Logs go to stderr by default so dump/encode output on stdout stays clean.
  output: stderr

dump:
  # Default rendering for decoded units: table, plain
  format: table

  # Cap on bytes read per invocation. Human-readable sizes work: 64Ki, 1Mi, 100KB.
  max_bytes: 64Ki

  # Fallback polling cadence for --follow when file notifications stay quiet
  poll_interval: 500ms

  # How long to wait for stdin to become readable (0s waits indefinitely)
  wait_timeout: 0s
`

// InitConfig writes the starter configuration file to the default location
// and returns the path written. Refuses to overwrite an existing file unless
// force is set.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes the starter configuration file to an explicit path,
// creating parent directories as needed.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Same restricted permissions as SaveConfig
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
