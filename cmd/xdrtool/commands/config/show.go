package config

import (
	"os"

	"github.com/riweirui/ntirpc/internal/cli/output"
	"github.com/riweirui/ntirpc/pkg/config"
	"github.com/spf13/cobra"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Display the effective xdrtool configuration.

By default outputs YAML format. Use --output to change format.

Examples:
  # Show the effective config as YAML
  xdrtool config show

  # Show as JSON
  xdrtool config show --output json

  # Show a specific config file
  xdrtool config show --config /etc/xdrtool/config.yaml`,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "Output format (yaml|json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	// Get config path from parent's persistent flag
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(showOutput)
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, cfg)
	default:
		return output.PrintYAML(os.Stdout, cfg)
	}
}
