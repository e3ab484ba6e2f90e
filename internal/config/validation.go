package config

import (
	"fmt"
	"strings"
)

// ValidateConfig performs validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := config.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := config.Database.Validate(); err != nil {
		return fmt.Errorf("database config validation failed: %w", err)
	}
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log config validation failed: %w", err)
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("port %d out of range", s.Port)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

func (d *DatabaseConfig) Validate() error {
	switch strings.ToLower(d.Type) {
	case DatabaseMemory:
	case DatabasePebble:
		if d.Path == "" {
			return fmt.Errorf("path is required for database type %s", d.Type)
		}
	default:
		return fmt.Errorf("unsupported database type %q (supported: %s, %s)", d.Type, DatabaseMemory, DatabasePebble)
	}
	if d.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative")
	}
	return nil
}

func (l *LogConfig) Validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported log format %q", l.Format)
	}
	return nil
}
