package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/antigravity-dev/autoword-go/internal/logging"
)

// Config holds all autoword configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	LLM       LLMConfig       `yaml:"llm"`
	Execution ExecutionConfig `yaml:"execution"`
	Logging   LoggingConfig   `yaml:"logging"`

	CoreLimits CoreLimits `yaml:"core_limits" json:"core_limits"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "autoword",
		Version: "1.0.0",

		LLM: LLMConfig{
			Provider:         "openai",
			Model:            "gpt-4o",
			BaseURL:          "https://api.openai.com/v1",
			Timeout:          "120s",
			MaxRetries:       3,
			RetryBackoffBase: 500 * time.Millisecond,
			RetryBackoffMax:  8 * time.Second,
			PerCallTimeout:   90 * time.Second,
		},

		Execution: ExecutionConfig{
			StrictTemplates:  false,
			DefaultTimeout:   "30s",
			WorkingDirectory: ".",
			Concurrency:      1,
			MaxBackups:       10,
			AutoRollback:     true,
		},

		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			File:      "autoword.log",
			DebugMode: false,
		},

		CoreLimits: CoreLimits{
			MaxConcurrentAPICalls: 4,
			MaxSessionDurationMin: 30,
			MaxAnnotationsPerRun:  2000,
		},
	}
}

// Load loads configuration from a YAML file. Missing file is not an
// error; defaults plus environment overrides are returned instead.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	boot := logging.Get(logging.CategoryBoot)
	boot.Debug("loading config from: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			boot.Info("config file not found, using defaults: %s", path)
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		boot.Error("failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		boot.Error("failed to parse config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	boot.Info("config loaded: provider=%s model=%s", cfg.LLM.Provider, cfg.LLM.Model)
	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides, checked in
// priority order. AUTOWORD_API_KEY_SECONDARY backs a fallback provider
// seam; see SPEC_FULL.md §6.5.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("AUTOWORD_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("AUTOWORD_API_KEY_SECONDARY"); key != "" {
		c.LLM.APIKeySecondary = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "openai"
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "anthropic"
	}
	if url := os.Getenv("AUTOWORD_API_BASE_URL"); url != "" {
		c.LLM.BaseURL = url
	}
	if model := os.Getenv("AUTOWORD_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if ws := os.Getenv("AUTOWORD_WORKDIR"); ws != "" {
		c.Execution.WorkingDirectory = ws
	}
}

// GetExecutionTimeout returns the default execution timeout as a duration.
func (c *Config) GetExecutionTimeout() time.Duration {
	d, err := time.ParseDuration(c.Execution.DefaultTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ValidProviders lists all supported LLM providers.
var ValidProviders = []string{"openai", "anthropic", "zai", "openrouter"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key not configured (set AUTOWORD_API_KEY, OPENAI_API_KEY, or ANTHROPIC_API_KEY)")
	}

	validProvider := false
	for _, p := range ValidProviders {
		if c.LLM.Provider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid LLM provider: %s (valid: %v)", c.LLM.Provider, ValidProviders)
	}

	return c.CoreLimits.Validate()
}
