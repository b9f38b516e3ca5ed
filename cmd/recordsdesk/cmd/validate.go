package cmd

import (
	"fmt"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

var validateServer bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Validate checks the configuration file and CLI overrides without
contacting the API.

Checks performed:
  - API base URL is set and is an http(s) URL
  - Logging level and format
  - With --server: listen address, storage driver and its settings

Example:
  recordsdesk validate --config recordsdesk.yaml --server`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateServer, "server", false, "Also validate the serve settings")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cfg.UI.Color {
		color.Disable()
	}

	cmd.Printf("\n=== Configuration Validation ===\n")
	cmd.Printf("Config file: %s\n", GetConfigFile())
	cmd.Printf("API base URL: %s\n\n", cfg.API.BaseURL)

	failed := false
	check := func(name string, err error) {
		if err != nil {
			failed = true
			cmd.Printf("%s %s\n%v\n", color.Red.Sprint("✗"), name, err)
			return
		}
		cmd.Printf("%s %s\n", color.Green.Sprint("✓"), name)
	}

	check("client settings", cfg.Validate())
	if validateServer {
		check("server settings", cfg.ValidateServer())
	}

	if failed {
		return fmt.Errorf("configuration is invalid")
	}
	cmd.Println("\nConfiguration is valid.")
	return nil
}
