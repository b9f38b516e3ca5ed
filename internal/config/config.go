// Package config provides configuration structures and loading for recordsdesk.
package config

// Config represents the complete application configuration.
type Config struct {
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	UI      UIConfig      `yaml:"ui" mapstructure:"ui"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// APIConfig points the client at the records backend.
type APIConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"` // e.g. http://localhost:8080
}

// ServerConfig configures the reference records backend started by `serve`.
type ServerConfig struct {
	Listen     string         `yaml:"listen" mapstructure:"listen"`
	Driver     string         `yaml:"driver" mapstructure:"driver"` // memory, sqlite, mysql
	SQLitePath string         `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	Table      string         `yaml:"table" mapstructure:"table"`
	Database   DatabaseConfig `yaml:"database" mapstructure:"database"`
	Metrics    bool           `yaml:"metrics" mapstructure:"metrics"`
}

// DatabaseConfig represents a MySQL database connection configuration.
type DatabaseConfig struct {
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// UIConfig represents terminal presentation settings.
type UIConfig struct {
	Color   bool   `yaml:"color" mapstructure:"color"`
	LogFile string `yaml:"log_file" mapstructure:"log_file"` // where `ui` logs when output is a terminal stream
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// Storage drivers supported by the reference backend.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
		},
		Server: ServerConfig{
			Listen:     ":8080",
			Driver:     DriverMemory,
			SQLitePath: "records.db",
			Table:      "records",
			Database: DatabaseConfig{
				Port:               3306,
				TLS:                "preferred",
				MaxConnections:     10,
				MaxIdleConnections: 5,
			},
			Metrics: true,
		},
		UI: UIConfig{
			Color:   true,
			LogFile: "recordsdesk.log",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
