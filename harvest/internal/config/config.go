// CLAUDE:SUMMARY Defines msaharvest config structs and parses YAML configuration files with defaults.
// Package config handles msaharvest configuration from YAML files.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level msaharvest configuration.
type Config struct {
	// EntryURL is the fixed application entry point. The workflow is
	// specific to this one page and is not parameterized per gene.
	EntryURL string `yaml:"entry_url"`

	Browser    BrowserConfig   `yaml:"browser"`
	Selectors  SelectorConfig  `yaml:"selectors"`
	Thresholds ThresholdConfig `yaml:"thresholds"`
	Waits      WaitConfig      `yaml:"waits"`
	Retry      RetryConfig     `yaml:"retry"`

	// Pace is the delay between consecutive genes, skipped after the
	// final gene.
	Pace time.Duration `yaml:"pace"`

	// OutputDir receives one artifact (or failure marker) per gene.
	OutputDir string `yaml:"output_dir"`

	// FailureLog is the JSON failure-record document.
	FailureLog string `yaml:"failure_log"`

	// RunDB enables the SQLite run-history store when non-empty.
	RunDB string `yaml:"run_db"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	// Remote is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	Remote string `yaml:"remote"`
	// Mode is "headless" or "headful". Headful is the debug mode.
	Mode string `yaml:"mode"`
}

// Headless reports whether the browser should run invisibly.
func (b *BrowserConfig) Headless() bool { return b.Mode != "headful" }

// SelectorConfig lists the CSS selectors driving the page workflow.
// Export and MSA candidates are ordered strategy lists: ID match first,
// then attribute, then structure; a text match is tried last.
type SelectorConfig struct {
	SearchInput      string   `yaml:"search_input"`
	SuggestionItem   string   `yaml:"suggestion_item"`
	ExportCandidates []string `yaml:"export_candidates"`
	ExportText       string   `yaml:"export_text"`
	MSACandidates    []string `yaml:"msa_candidates"`
	MSAText          string   `yaml:"msa_text"`
}

// ThresholdConfig holds the capture size thresholds. ShortCircuit and
// Fallback are deliberately distinct values inherited from the original
// tool's calibration; unifying them changes accept behavior.
type ThresholdConfig struct {
	// ObserveMinChars is the minimum network body length recorded by
	// the observer.
	ObserveMinChars int `yaml:"observe_min_chars"`
	// ShortCircuitMinChars is the observed-data size that ends the
	// workflow before any export UI interaction.
	ShortCircuitMinChars int `yaml:"short_circuit_min_chars"`
	// FallbackMinChars is the observed-data size accepted when the
	// export control cannot be found.
	FallbackMinChars int `yaml:"fallback_min_chars"`
}

// WaitConfig holds the workflow timeouts and settle delays.
type WaitConfig struct {
	Nav          time.Duration `yaml:"nav"`
	Autocomplete time.Duration `yaml:"autocomplete"`
	Settle       time.Duration `yaml:"settle"`
	Dropdown     time.Duration `yaml:"dropdown"`
	Export       time.Duration `yaml:"export"`
	Element      time.Duration `yaml:"element"`
}

// RetryConfig bounds per-gene re-attempts.
type RetryConfig struct {
	Attempts int           `yaml:"attempts"`
	Backoff  time.Duration `yaml:"backoff"`
}

// LoadFile reads a YAML configuration file and applies defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields with the calibrated defaults.
func (c *Config) ApplyDefaults() {
	if c.EntryURL == "" {
		c.EntryURL = "https://lis.ncgr.org/lens/"
	}
	if c.Browser.Mode == "" {
		c.Browser.Mode = "headless"
	}
	if c.Selectors.SearchInput == "" {
		c.Selectors.SearchInput = "input[type=search], input[type=text], #search"
	}
	if c.Selectors.SuggestionItem == "" {
		c.Selectors.SuggestionItem = ".autocomplete-suggestion, .suggestion, li[role=option]"
	}
	if len(c.Selectors.ExportCandidates) == 0 {
		c.Selectors.ExportCandidates = []string{
			"#export",
			"[data-action=export], [title=Export], button[name=export]",
			".toolbar button.export, .menu .export",
		}
	}
	if c.Selectors.ExportText == "" {
		c.Selectors.ExportText = "button, a, div[role=button], span[role=button]"
	}
	if len(c.Selectors.MSACandidates) == 0 {
		c.Selectors.MSACandidates = []string{
			"#msa",
			"[data-export=msa], [title=MSA]",
			".dropdown-menu li, .export-menu li",
		}
	}
	if c.Selectors.MSAText == "" {
		c.Selectors.MSAText = "li, a, button, div[role=menuitem]"
	}
	if c.Thresholds.ObserveMinChars <= 0 {
		c.Thresholds.ObserveMinChars = 100
	}
	if c.Thresholds.ShortCircuitMinChars <= 0 {
		c.Thresholds.ShortCircuitMinChars = 1000
	}
	if c.Thresholds.FallbackMinChars <= 0 {
		c.Thresholds.FallbackMinChars = 50
	}
	if c.Waits.Nav <= 0 {
		c.Waits.Nav = 30 * time.Second
	}
	if c.Waits.Autocomplete <= 0 {
		c.Waits.Autocomplete = 3 * time.Second
	}
	if c.Waits.Settle <= 0 {
		c.Waits.Settle = 5 * time.Second
	}
	if c.Waits.Dropdown <= 0 {
		c.Waits.Dropdown = 2 * time.Second
	}
	if c.Waits.Export <= 0 {
		c.Waits.Export = 1500 * time.Millisecond
	}
	if c.Waits.Element <= 0 {
		c.Waits.Element = time.Second
	}
	if c.Retry.Attempts <= 0 {
		c.Retry.Attempts = 3
	}
	if c.Retry.Backoff <= 0 {
		c.Retry.Backoff = 2 * time.Second
	}
	if c.Pace <= 0 {
		c.Pace = 2 * time.Second
	}
	if c.OutputDir == "" {
		c.OutputDir = "msa_output"
	}
	if c.FailureLog == "" {
		c.FailureLog = "failed_genes.json"
	}
}
