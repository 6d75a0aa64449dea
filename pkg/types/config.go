// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by provider adapters.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests (e.g. "privscan/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ProviderConfig holds settings for one language-model provider.
type ProviderConfig struct {
	// Model is the provider's model identifier.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the provider API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint (proxies, tests).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// AIConfig holds settings shared by every semantic provider adapter.
type AIConfig struct {
	HTTPConfig `yaml:",inline"`

	Anthropic ProviderConfig `json:"anthropic" yaml:"anthropic"`
	OpenAI    ProviderConfig `json:"openai" yaml:"openai"`

	// MaxRetries is the number of retry attempts on 429/5xx responses (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// DetectionConfig holds settings for the detect stage.
type DetectionConfig struct {
	// Sensitivity selects the weight/threshold profile: low, medium, or high.
	Sensitivity string `json:"sensitivity" yaml:"sensitivity"`

	// Provider is the semantic provider id: anthropic or openai.
	Provider string `json:"provider" yaml:"provider"`

	// Semantic enables the AI-assisted stage.
	Semantic bool `json:"semantic" yaml:"semantic"`

	// MaxInFlight bounds concurrent semantic calls (default 4).
	MaxInFlight int `json:"max_in_flight" yaml:"max_in_flight"`

	// Timeout bounds a single semantic call (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// TablesFile optionally overrides the keyword and pattern tables.
	TablesFile string `json:"tables" yaml:"tables"`
}

// ReviewConfig holds settings for the review store.
type ReviewConfig struct {
	// Dir contains review.db.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// LogConfig selects the logger level and output format (text or json).
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}
