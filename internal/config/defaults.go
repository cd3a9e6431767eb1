package config

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Format: "table",
			Color:  true,
		},
		Spray: SprayConfig{
			Count:   64,
			Size:    64,
			Type:    "ArrayBuffer",
			Pattern: "uniform",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "heapsim",
		},
	}
}
