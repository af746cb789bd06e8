package config

import (
	"fmt"

	"github.com/riweirui/ntirpc/pkg/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load a configuration file, apply defaults, and check it against the
schema. Prints the resolved path on success.

Examples:
  # Validate the default config file
  xdrtool config validate

  # Validate a specific file
  xdrtool config validate --config /etc/xdrtool/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	// Get config path from parent's persistent flag
	configPath, _ := cmd.Flags().GetString("config")

	if _, err := config.MustLoad(configPath); err != nil {
		return err
	}

	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}
	fmt.Printf("Configuration is valid: %s\n", configPath)
	return nil
}
