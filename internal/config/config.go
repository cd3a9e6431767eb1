// Package config holds the CLI and TUI configuration, loaded from a YAML
// file with sensible defaults for everything.
package config

// Config is the root configuration for heapsim.
type Config struct {
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Spray   SprayConfig   `mapstructure:"spray" yaml:"spray"`
	Tracing TracingConfig `mapstructure:"tracing" yaml:"tracing"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// Format is one of text, json.
	Format string `mapstructure:"format" yaml:"format"`
}

// OutputConfig controls command output rendering.
type OutputConfig struct {
	// Format is one of table, json, yaml.
	Format string `mapstructure:"format" yaml:"format"`

	// Color toggles ANSI color in table output.
	Color bool `mapstructure:"color" yaml:"color"`
}

// SprayConfig holds the defaults for the spray command.
type SprayConfig struct {
	Count   int    `mapstructure:"count" yaml:"count"`
	Size    int    `mapstructure:"size" yaml:"size"`
	Type    string `mapstructure:"type" yaml:"type"`
	Pattern string `mapstructure:"pattern" yaml:"pattern"`
}

// TracingConfig controls OpenTelemetry span export.
type TracingConfig struct {
	// Enabled turns span recording on. When false a no-op provider is
	// installed and tracing has zero overhead.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// ServiceName overrides the resource service name.
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}
