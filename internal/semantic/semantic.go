// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package semantic adapts hosted language models to the privilege detector.
// A Backend sends one prompt to one provider; the Router picks a backend by
// provider id, renders the privilege prompt, and parses the reply into a
// types.SemanticVerdict.
package semantic

import (
	"context"
	"errors"
)

// Provider ids accepted by the Router.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Default models per provider.
const (
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
	DefaultOpenAIModel    = "gpt-4-turbo-preview"
)

// MaxExcerptRunes bounds the document text sent to a provider.
const MaxExcerptRunes = 2000

// Sentinel errors.
var (
	ErrUnknownProvider   = errors.New("unknown semantic provider")
	ErrMissingAPIKey     = errors.New("missing API key")
	ErrMalformedResponse = errors.New("malformed provider response")
)

// Backend abstracts one hosted model so tests can supply a mock.
type Backend interface {
	// Name returns the provider id the backend serves.
	Name() string

	// Complete sends prompt and returns the model's text reply.
	Complete(ctx context.Context, prompt string) (string, error)
}
