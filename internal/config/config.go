package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"time"
)

// Config represents the complete oracled configuration
type Config struct {
	Server   ServerConfig   `toml:"server" mapstructure:"server"`
	Database DatabaseConfig `toml:"database" mapstructure:"database"`
	Log      LogConfig      `toml:"log" mapstructure:"log"`
	Metrics  MetricsConfig  `toml:"metrics" mapstructure:"metrics"`

	// Path of the file the configuration was read from, empty for defaults
	configPath string
}

// ServerConfig configures the JSON-RPC / WebSocket listener
type ServerConfig struct {
	Bind    string        `toml:"bind" mapstructure:"bind"`
	Port    int           `toml:"port" mapstructure:"port"`
	Timeout time.Duration `toml:"timeout" mapstructure:"timeout"`
}

// Address returns the host:port the server listens on
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Bind, strconv.Itoa(s.Port))
}

// URL returns the JSON-RPC endpoint of a server with this configuration
func (s ServerConfig) URL() string {
	host := s.Bind
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, strconv.Itoa(s.Port)))
}

// Database backends
const (
	DatabaseMemory = "memory"
	DatabasePebble = "pebble"
)

// DatabaseConfig selects the ledger storage backend
type DatabaseConfig struct {
	Type      string `toml:"type" mapstructure:"type"`
	Path      string `toml:"path" mapstructure:"path"`
	CacheSize int    `toml:"cache_size" mapstructure:"cache_size"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level  string `toml:"level" mapstructure:"level"`
	Format string `toml:"format" mapstructure:"format"`
}

// MetricsConfig toggles the /metrics endpoint
type MetricsConfig struct {
	Enabled   bool   `toml:"enabled" mapstructure:"enabled"`
	Namespace string `toml:"namespace" mapstructure:"namespace"`
}

// ConfigPath returns the path of the loaded configuration file
func (c *Config) ConfigPath() string {
	return c.configPath
}

// DatabasePath returns the database directory, resolved against the
// directory of the configuration file when relative
func (c *Config) DatabasePath() string {
	if c.Database.Path == "" || filepath.IsAbs(c.Database.Path) || c.configPath == "" {
		return c.Database.Path
	}
	return filepath.Join(filepath.Dir(c.configPath), c.Database.Path)
}
