package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// DefaultConfigFile is read when --config is not given. It may be absent.
const DefaultConfigFile = "recordsdesk.yaml"

// CLI flags that override config file values
var (
	cfgFile   string
	baseURL   string
	logLevel  string
	logFormat string
	noColor   bool
)

var rootCmd = &cobra.Command{
	Use:   "recordsdesk",
	Short: "Contact records desk over REST",
	Long: `A terminal front-end for a /records REST resource: list, add, edit and
delete contact records (name, phone, email, security, revenue).

Every change is sent to the server and the list is re-fetched afterwards;
nothing is shown until the server has confirmed it.

Features:
  - One-shot commands (list, create, update, delete)
  - Interactive table with add and edit forms (ui)
  - Reference backend on memory, SQLite or MySQL storage (serve)`,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", DefaultConfigFile,
		"Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "",
		"Override the records API base URL")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable coloured output")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	BaseURL   string
	LogLevel  string
	LogFormat string
	NoColor   bool
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		BaseURL:   baseURL,
		LogLevel:  logLevel,
		LogFormat: logFormat,
		NoColor:   noColor,
	}
}
