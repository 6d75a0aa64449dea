// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package semantic

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/pdiddy/privscan/internal/privilege"
	"github.com/pdiddy/privscan/pkg/types"
)

// Router dispatches semantic analysis to the backend registered for a
// provider id. It implements privilege.SemanticAnalyzer.
type Router struct {
	backends map[string]Backend
}

var _ privilege.SemanticAnalyzer = (*Router)(nil)

// NewRouter registers backends under their Name. A later backend with the
// same name replaces an earlier one.
func NewRouter(backends ...Backend) *Router {
	r := &Router{backends: make(map[string]Backend, len(backends))}
	for _, b := range backends {
		if b != nil {
			r.backends[strings.ToLower(b.Name())] = b
		}
	}
	return r
}

// Providers returns the registered provider ids, sorted.
func (r *Router) Providers() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Has reports whether provider has a registered backend.
func (r *Router) Has(provider string) bool {
	_, ok := r.backends[strings.ToLower(strings.TrimSpace(provider))]
	return ok
}

// Analyze renders the privilege prompt for text, sends it to the provider's
// backend, and parses the reply.
func (r *Router) Analyze(ctx context.Context, text, provider string) (types.SemanticVerdict, error) {
	b, ok := r.backends[strings.ToLower(strings.TrimSpace(provider))]
	if !ok {
		return types.SemanticVerdict{}, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	prompt, err := renderPrompt(text)
	if err != nil {
		return types.SemanticVerdict{}, fmt.Errorf("rendering prompt: %w", err)
	}

	reply, err := b.Complete(ctx, prompt)
	if err != nil {
		return types.SemanticVerdict{}, err
	}
	return ParseVerdict(reply)
}

// NewRouterFromConfig builds a Router with a backend for every provider that
// has an API key. Providers without a key are left unregistered, so asking
// for them fails with ErrUnknownProvider.
func NewRouterFromConfig(cfg types.AIConfig) *Router {
	client := &http.Client{Timeout: cfg.Timeout}

	var backends []Backend
	if cfg.Anthropic.APIKey != "" {
		backends = append(backends, &ClaudeBackend{
			APIKey:     cfg.Anthropic.APIKey,
			Model:      cfg.Anthropic.Model,
			MaxRetries: cfg.MaxRetries,
			Client:     client,
			BaseURL:    cfg.Anthropic.BaseURL,
			UserAgent:  cfg.UserAgent,
		})
	}
	if cfg.OpenAI.APIKey != "" {
		backends = append(backends, &OpenAIBackend{
			APIKey:     cfg.OpenAI.APIKey,
			Model:      cfg.OpenAI.Model,
			MaxRetries: cfg.MaxRetries,
			Client:     client,
			BaseURL:    cfg.OpenAI.BaseURL,
			UserAgent:  cfg.UserAgent,
		})
	}
	return NewRouter(backends...)
}
