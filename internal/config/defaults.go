package config

import "github.com/spf13/viper"

// DefaultConfigFile is the configuration file looked up when none is given
const DefaultConfigFile = "oracled.toml"

// setDefaults sets all default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.bind", "127.0.0.1")
	v.SetDefault("server.port", 5005)
	v.SetDefault("server.timeout", "30s")

	v.SetDefault("database.type", DatabaseMemory)
	v.SetDefault("database.path", "db")
	v.SetDefault("database.cache_size", 4096)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "oracled")
}
