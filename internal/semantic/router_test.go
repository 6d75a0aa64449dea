// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package semantic

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/privscan/internal/privilege"
	"github.com/pdiddy/privscan/pkg/types"
)

// mockBackend returns a canned reply and records the last prompt.
type mockBackend struct {
	name   string
	reply  string
	err    error
	prompt string
}

func (m *mockBackend) Name() string { return m.name }

func (m *mockBackend) Complete(_ context.Context, prompt string) (string, error) {
	m.prompt = prompt
	return m.reply, m.err
}

func TestRouter_Analyze(t *testing.T) {
	anthropic := &mockBackend{name: ProviderAnthropic, reply: `{"isPrivileged": true, "confidence": 0.8, "reasoning": "Counsel's advice.", "privilegeType": "attorney-client"}`}
	openai := &mockBackend{name: ProviderOpenAI, reply: `{"isPrivileged": false, "confidence": 0.3, "privilegeType": "none"}`}
	r := NewRouter(anthropic, openai)

	assert.Equal(t, []string{"anthropic", "openai"}, r.Providers())

	v, err := r.Analyze(context.Background(), "Memo from counsel.", "Anthropic")
	require.NoError(t, err)
	assert.Equal(t, types.SemanticVerdict{IsPrivileged: true, Confidence: 0.8, Reasoning: "Counsel's advice.", PrivilegeType: types.PrivilegeAttorneyClient}, v)
	assert.Contains(t, anthropic.prompt, "Memo from counsel.")
	assert.Empty(t, openai.prompt)

	v, err = r.Analyze(context.Background(), "Lunch?", "openai")
	require.NoError(t, err)
	assert.False(t, v.IsPrivileged)
}

func TestRouter_UnknownProvider(t *testing.T) {
	r := NewRouter(&mockBackend{name: ProviderAnthropic})
	_, err := r.Analyze(context.Background(), "text", "gemini")
	assert.ErrorIs(t, err, ErrUnknownProvider)
	assert.False(t, r.Has("gemini"))
	assert.True(t, r.Has(" anthropic "))
}

func TestRouter_BackendErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	r := NewRouter(&mockBackend{name: ProviderOpenAI, err: boom})
	_, err := r.Analyze(context.Background(), "text", ProviderOpenAI)
	assert.ErrorIs(t, err, boom)
}

func TestRouter_DrivesDetector(t *testing.T) {
	r := NewRouter(&mockBackend{name: ProviderAnthropic, reply: "```json\n{\"isPrivileged\": true, \"confidence\": 0.9, \"reasoning\": \"Requests legal strategy.\", \"privilegeType\": \"work_product\"}\n```"})
	d, err := privilege.NewDetector(
		privilege.Config{Sensitivity: types.SensitivityMedium, Provider: ProviderAnthropic},
		privilege.WithSemantic(r),
	)
	require.NoError(t, err)

	res := d.Detect(context.Background(), types.Document{ID: "a.txt", Text: "Can we discuss the strategy before the hearing?"})
	assert.Equal(t, types.SemanticRan, res.Diagnostics.SemanticStatus)
	assert.Equal(t, types.PrivilegeWorkProduct, res.Diagnostics.PrivilegeType)
	assert.Contains(t, res.Reasons, "Requests legal strategy.")
	assert.InDelta(t, 0.9*0.3, res.Confidence, 1e-9)
}

func TestRouter_MalformedReplyDegradesDetector(t *testing.T) {
	r := NewRouter(&mockBackend{name: ProviderAnthropic, reply: "Sorry, I can't help with that."})
	d, err := privilege.NewDetector(
		privilege.Config{Sensitivity: types.SensitivityMedium, Provider: ProviderAnthropic},
		privilege.WithSemantic(r),
	)
	require.NoError(t, err)

	res := d.Detect(context.Background(), types.Document{ID: "b.txt", Text: "Can we discuss the strategy?"})
	assert.Equal(t, types.SemanticUnavailable, res.Diagnostics.SemanticStatus)
	assert.Zero(t, res.Confidence)
}

func TestNewRouterFromConfig(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"content":[{"type":"text","text":"{\"isPrivileged\":true,\"confidence\":0.6}"}]}`))
	}))
	defer ts.Close()

	cfg := types.AIConfig{
		Anthropic: types.ProviderConfig{APIKey: "k", BaseURL: ts.URL},
	}
	r := NewRouterFromConfig(cfg)
	assert.Equal(t, []string{"anthropic"}, r.Providers())

	v, err := r.Analyze(context.Background(), "text", ProviderAnthropic)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, v.Confidence, 1e-9)

	_, err = r.Analyze(context.Background(), "text", ProviderOpenAI)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
