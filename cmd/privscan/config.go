// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/privscan/internal/secrets"
	"github.com/pdiddy/privscan/internal/semantic"
	"github.com/pdiddy/privscan/pkg/types"
)

func setDefaults() {
	viper.SetDefault("detect.sensitivity", "medium")
	viper.SetDefault("detect.provider", semantic.ProviderAnthropic)
	viper.SetDefault("detect.semantic", true)
	viper.SetDefault("detect.max_in_flight", 4)
	viper.SetDefault("detect.timeout", 30*time.Second)
	viper.SetDefault("detect.tables", "")

	viper.SetDefault("ai.anthropic.model", semantic.DefaultAnthropicModel)
	viper.SetDefault("ai.openai.model", semantic.DefaultOpenAIModel)
	viper.SetDefault("ai.max_retries", 3)
	viper.SetDefault("ai.timeout", 60*time.Second)
	viper.SetDefault("ai.user_agent", "privscan/"+version)

	viper.SetDefault("review.dir", "review")
	viper.SetDefault("review.max_results", 50)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

func detectionConfig() types.DetectionConfig {
	return types.DetectionConfig{
		Sensitivity: viper.GetString("detect.sensitivity"),
		Provider:    viper.GetString("detect.provider"),
		Semantic:    viper.GetBool("detect.semantic"),
		MaxInFlight: viper.GetInt("detect.max_in_flight"),
		Timeout:     viper.GetDuration("detect.timeout"),
		TablesFile:  viper.GetString("detect.tables"),
	}
}

// detectionConfigFor layers the detection flags the user set on cmd over
// detectionConfig.
func detectionConfigFor(cmd *cobra.Command) types.DetectionConfig {
	cfg := detectionConfig()
	flags := cmd.Flags()
	if flags.Changed("sensitivity") {
		cfg.Sensitivity, _ = flags.GetString("sensitivity")
	}
	if flags.Changed("provider") {
		cfg.Provider, _ = flags.GetString("provider")
	}
	if noSemantic, _ := flags.GetBool("no-semantic"); noSemantic {
		cfg.Semantic = false
	}
	if flags.Changed("max-in-flight") {
		cfg.MaxInFlight, _ = flags.GetInt("max-in-flight")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("tables") {
		cfg.TablesFile, _ = flags.GetString("tables")
	}
	return cfg
}

// aiConfig resolves provider settings and API keys. Keys come from config,
// then the environment, then .secrets/, then .env.
func aiConfig() types.AIConfig {
	return types.AIConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("ai.timeout"),
			UserAgent: viper.GetString("ai.user_agent"),
		},
		Anthropic: types.ProviderConfig{
			Model:   viper.GetString("ai.anthropic.model"),
			APIKey:  secrets.Resolve(secrets.AnthropicAPIKey, viper.GetString("ai.anthropic.api_key"), loadedSecrets, loadedDotenv),
			BaseURL: viper.GetString("ai.anthropic.base_url"),
		},
		OpenAI: types.ProviderConfig{
			Model:   viper.GetString("ai.openai.model"),
			APIKey:  secrets.Resolve(secrets.OpenAIAPIKey, viper.GetString("ai.openai.api_key"), loadedSecrets, loadedDotenv),
			BaseURL: viper.GetString("ai.openai.base_url"),
		},
		MaxRetries: viper.GetInt("ai.max_retries"),
	}
}

func reviewConfig() types.ReviewConfig {
	return types.ReviewConfig{
		Dir:        viper.GetString("review.dir"),
		MaxResults: viper.GetInt("review.max_results"),
	}
}

func logConfig() types.LogConfig {
	return types.LogConfig{
		Level:  viper.GetString("log.level"),
		Format: viper.GetString("log.format"),
	}
}

// semanticKeyEnv names the environment variable holding provider's API key.
func semanticKeyEnv(provider string) string {
	if provider == semantic.ProviderOpenAI {
		return secrets.EnvVar(secrets.OpenAIAPIKey)
	}
	return secrets.EnvVar(secrets.AnthropicAPIKey)
}
