package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration against its struct tags plus the rules
// tags cannot express.
//
// Validation never mutates the config; normalization (such as upper-casing
// the log level) belongs to ApplyDefaults.
func Validate(cfg *Config) error {
	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("cannot validate configuration: %w", err)
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// A read cap smaller than one unit would make every dump come up empty.
	if cfg.Dump.MaxBytes != 0 && cfg.Dump.MaxBytes < 4 {
		return fmt.Errorf("dump.max_bytes %s cannot hold a single 4-byte unit", cfg.Dump.MaxBytes)
	}

	return nil
}
