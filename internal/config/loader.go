package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/zero-day-ai/heapsim/internal/types"
)

// Load loads configuration from the specified file path. Returns an error
// if the file does not exist or cannot be parsed.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to read config file", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to unmarshal config", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWithDefaults loads configuration from the specified file path,
// falling back to defaults when the file does not exist.
func LoadWithDefaults(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// setDefaults seeds viper so a partial config file inherits the defaults
// for everything it leaves out.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.color", defaults.Output.Color)
	v.SetDefault("spray.count", defaults.Spray.Count)
	v.SetDefault("spray.size", defaults.Spray.Size)
	v.SetDefault("spray.type", defaults.Spray.Type)
	v.SetDefault("spray.pattern", defaults.Spray.Pattern)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
}
