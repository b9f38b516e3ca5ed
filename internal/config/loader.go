package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. RECORDSDESK_API_BASE_URL.
const EnvPrefix = "RECORDSDESK"

// BaseURLEnv is the short form accepted for the most common override.
const BaseURLEnv = "RECORDSDESK_BASE_URL"

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
func Load(configPath string) (*Config, error) {
	v := newViper()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadOptional behaves like Load but falls back to defaults and environment
// overrides when the file does not exist.
func LoadOptional(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadFromViper(newViper())
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	return Load(configPath)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if url, ok := os.LookupEnv(BaseURLEnv); ok && url != "" {
		cfg.API.BaseURL = url
	}

	if err := substituteEnvVars(cfg); err != nil {
		return nil, fmt.Errorf("failed to substitute environment variables: %w", err)
	}

	return cfg, nil
}

// newViper returns a Viper instance that knows every key, so that
// RECORDSDESK_* environment variables are honored during Unmarshal.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())
	return v
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("api.base_url", d.API.BaseURL)

	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.driver", d.Server.Driver)
	v.SetDefault("server.sqlite_path", d.Server.SQLitePath)
	v.SetDefault("server.table", d.Server.Table)
	v.SetDefault("server.metrics", d.Server.Metrics)
	v.SetDefault("server.database.host", d.Server.Database.Host)
	v.SetDefault("server.database.port", d.Server.Database.Port)
	v.SetDefault("server.database.user", d.Server.Database.User)
	v.SetDefault("server.database.password", d.Server.Database.Password)
	v.SetDefault("server.database.database", d.Server.Database.Database)
	v.SetDefault("server.database.tls", d.Server.Database.TLS)
	v.SetDefault("server.database.max_connections", d.Server.Database.MaxConnections)
	v.SetDefault("server.database.max_idle_connections", d.Server.Database.MaxIdleConnections)

	v.SetDefault("ui.color", d.UI.Color)
	v.SetDefault("ui.log_file", d.UI.LogFile)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func substituteEnvVars(cfg *Config) error {
	cfg.API.BaseURL = expandEnvVar(cfg.API.BaseURL)

	cfg.Server.Listen = expandEnvVar(cfg.Server.Listen)
	cfg.Server.SQLitePath = expandEnvVar(cfg.Server.SQLitePath)
	cfg.Server.Database.Host = expandEnvVar(cfg.Server.Database.Host)
	cfg.Server.Database.User = expandEnvVar(cfg.Server.Database.User)
	cfg.Server.Database.Password = expandEnvVar(cfg.Server.Database.Password)
	cfg.Server.Database.Database = expandEnvVar(cfg.Server.Database.Database)

	cfg.UI.LogFile = expandEnvVar(cfg.UI.LogFile)
	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-empty values are applied.
func (c *Config) ApplyOverrides(baseURL, logLevel, logFormat string, noColor bool) {
	if baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if noColor {
		c.UI.Color = false
	}
}

// InteractiveLogging returns the logging settings used while the terminal UI
// owns the screen: terminal streams are redirected to the UI log file.
func (c *Config) InteractiveLogging() LoggingConfig {
	lc := c.Logging
	switch lc.Output {
	case "", "stdout", "stderr":
		lc.Output = c.UI.LogFile
		if lc.Output == "" {
			lc.Output = DefaultConfig().UI.LogFile
		}
	}
	return lc
}
