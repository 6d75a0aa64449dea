// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/privscan/internal/semantic"
	"github.com/pdiddy/privscan/pkg/types"
)

func newFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addDetectionFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestDetectionConfigFor_Defaults(t *testing.T) {
	cfg := detectionConfigFor(newFlagCmd(t))

	assert.Equal(t, "medium", cfg.Sensitivity)
	assert.Equal(t, semantic.ProviderAnthropic, cfg.Provider)
	assert.True(t, cfg.Semantic)
	assert.Equal(t, 4, cfg.MaxInFlight)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestDetectionConfigFor_FlagsOverride(t *testing.T) {
	cmd := newFlagCmd(t,
		"--sensitivity", "high",
		"--provider", "openai",
		"--no-semantic",
		"--max-in-flight", "2",
		"--timeout", "5s",
		"--tables", "custom.toml",
	)
	cfg := detectionConfigFor(cmd)

	assert.Equal(t, "high", cfg.Sensitivity)
	assert.Equal(t, semantic.ProviderOpenAI, cfg.Provider)
	assert.False(t, cfg.Semantic)
	assert.Equal(t, 2, cfg.MaxInFlight)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "custom.toml", cfg.TablesFile)
}

func TestSemanticOptions(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	t.Run("disabled", func(t *testing.T) {
		provider, opts, err := semanticOptions(types.DetectionConfig{Provider: "openai"})
		require.NoError(t, err)
		assert.Empty(t, provider)
		assert.Empty(t, opts)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, _, err := semanticOptions(types.DetectionConfig{Semantic: true, Provider: "gemini"})
		assert.ErrorIs(t, err, semantic.ErrUnknownProvider)
	})

	t.Run("missing key disables the stage", func(t *testing.T) {
		provider, opts, err := semanticOptions(types.DetectionConfig{Semantic: true, Provider: "anthropic"})
		require.NoError(t, err)
		assert.Empty(t, provider)
		assert.Empty(t, opts)
	})

	t.Run("provider id is case-insensitive", func(t *testing.T) {
		provider, opts, err := semanticOptions(types.DetectionConfig{Semantic: true, Provider: " OpenAI "})
		require.NoError(t, err)
		assert.Equal(t, semantic.ProviderOpenAI, provider)
		assert.Len(t, opts, 1)
	})

	t.Run("configured provider", func(t *testing.T) {
		provider, opts, err := semanticOptions(types.DetectionConfig{Semantic: true, Provider: "openai"})
		require.NoError(t, err)
		assert.Equal(t, semantic.ProviderOpenAI, provider)
		assert.Len(t, opts, 1)
	})
}

func TestDetectPaths_RequiresInput(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("files", "", "")

	_, err := detectPaths(cmd, nil)
	assert.Error(t, err)
}
