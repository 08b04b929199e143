package harvest

import (
	"github.com/hazyhaar/msaharvest/harvest/internal/config"
)

// Config is the top-level harvest configuration. Re-exported from internal.
type Config = config.Config

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig = config.BrowserConfig

// SelectorConfig lists the CSS selectors driving the page workflow.
type SelectorConfig = config.SelectorConfig

// ThresholdConfig holds the capture size thresholds.
type ThresholdConfig = config.ThresholdConfig

// WaitConfig holds the workflow timeouts and settle delays.
type WaitConfig = config.WaitConfig

// RetryConfig bounds per-gene re-attempts.
type RetryConfig = config.RetryConfig

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return config.Default()
}
