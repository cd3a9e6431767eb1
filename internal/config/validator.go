package config

import (
	"github.com/zero-day-ai/heapsim/internal/types"
)

var (
	validLogLevels     = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats    = map[string]bool{"text": true, "json": true}
	validOutputFormats = map[string]bool{"table": true, "json": true, "yaml": true}
	validSprayPatterns = map[string]bool{"uniform": true, "ramp": true, "alternating": true}
)

// Validate checks the configuration for usable values.
func Validate(cfg *Config) error {
	if !validLogLevels[cfg.Log.Level] {
		return types.NewErrorf(types.CONFIG_VALIDATION_FAILED, "invalid log level %q", cfg.Log.Level)
	}
	if !validLogFormats[cfg.Log.Format] {
		return types.NewErrorf(types.CONFIG_VALIDATION_FAILED, "invalid log format %q", cfg.Log.Format)
	}
	if !validOutputFormats[cfg.Output.Format] {
		return types.NewErrorf(types.CONFIG_VALIDATION_FAILED, "invalid output format %q", cfg.Output.Format)
	}
	if cfg.Spray.Count <= 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "spray count must be positive")
	}
	if cfg.Spray.Size <= 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "spray size must be positive")
	}
	if cfg.Spray.Pattern != "" && !validSprayPatterns[cfg.Spray.Pattern] {
		return types.NewErrorf(types.CONFIG_VALIDATION_FAILED, "invalid spray pattern %q", cfg.Spray.Pattern)
	}
	return nil
}
