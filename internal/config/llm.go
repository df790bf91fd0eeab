package config

import "time"

// LLMConfig configures the LLM Client used by the Planner to turn
// annotations into a task plan.
type LLMConfig struct {
	Provider string `yaml:"provider"` // openai, anthropic, zai, openrouter
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`

	// APIKeySecondary is a fallback key tried once when the provider
	// rejects APIKey's credentials (HTTP 401/403), set from
	// AUTOWORD_API_KEY_SECONDARY. A rate-limit response does not switch
	// keys; it is retried on the same key. Empty means no fallback is
	// configured.
	APIKeySecondary string `yaml:"api_key_secondary" json:"-"`

	// MaxRetries is the number of retries HTTPClient.Complete makes after
	// a failed attempt (transport error, timeout, non-2xx status other
	// than 401/403, or an unparseable chat-completion envelope) before
	// returning the last error. A completion whose content does not
	// parse as a task list is not retried.
	MaxRetries int `yaml:"max_retries" json:"max_retries"`

	// RetryBackoffBase and RetryBackoffMax bound the exponential backoff
	// between retries. In Go the shortest timeout in a call chain wins,
	// so PerCallTimeout should stay comfortably under Timeout.
	RetryBackoffBase time.Duration `yaml:"retry_backoff_base" json:"retry_backoff_base"`
	RetryBackoffMax  time.Duration `yaml:"retry_backoff_max" json:"retry_backoff_max"`

	// PerCallTimeout wraps a single attempt; Timeout (above) is the HTTP
	// client's timeout for each request. Neither bounds the total time
	// spent across retries.
	PerCallTimeout time.Duration `yaml:"per_call_timeout" json:"per_call_timeout"`
}

// GetTimeout returns Timeout as a duration, the per-request HTTP
// timeout.
func (c *LLMConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// ResolveAPIKey picks the credential HTTPClient should start with:
// overrides (a caller-supplied map keyed by provider, e.g. from a
// secrets manager integration) wins over the config file/environment
// value already loaded onto c.APIKey. The secondary key, if any, stays
// on LLMConfig for HTTPClient's own auth-rejection fallback and is
// never returned here.
func (c *LLMConfig) ResolveAPIKey(overrides map[string]string) string {
	if key, ok := overrides[c.Provider]; ok && key != "" {
		return key
	}
	return c.APIKey
}
