package config

import (
	"fmt"

	"github.com/riweirui/ntirpc/pkg/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter configuration file",
	Long: `Create a commented xdrtool configuration file.

By default the file is created under $XDG_CONFIG_HOME/xdrtool (or
~/.config/xdrtool). Use the global --config flag to pick a custom path.

Examples:
  # Initialize at the default location
  xdrtool config init

  # Initialize at a custom path
  xdrtool config init --config /etc/xdrtool/config.yaml

  # Overwrite an existing file
  xdrtool config init --force`,
	RunE: runConfigInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	// Get config path from parent's persistent flag
	configFile, _ := cmd.Flags().GetString("config")

	var configPath string
	var err error

	if configFile != "" {
		err = config.InitConfigToPath(configFile, initForce)
		configPath = configFile
	} else {
		configPath, err = config.InitConfig(initForce)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the file to adjust dump and logging defaults")
	fmt.Printf("  2. Inspect a stream: xdrtool dump file.xdr --config %s\n", configPath)

	return nil
}
