// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package semantic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/privscan/internal/httputil"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func TestClaudeBackend_Complete(t *testing.T) {
	var got claudeRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Equal(t, "privscan/test", r.Header.Get("User-Agent"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"{\"isPrivileged\":true,\"confidence\":0.9}"}]}`))
	}))
	defer ts.Close()

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = old }()

	b := &ClaudeBackend{APIKey: "test-key", Client: ts.Client(), UserAgent: "privscan/test"}
	reply, err := b.Complete(context.Background(), "prompt text")
	require.NoError(t, err)

	assert.Equal(t, `{"isPrivileged":true,"confidence":0.9}`, reply)
	assert.Equal(t, DefaultAnthropicModel, got.Model)
	assert.Zero(t, got.Temperature)
	assert.Equal(t, systemPrompt, got.System)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "prompt text", got.Messages[0].Content)
}

func TestClaudeBackend_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"bad key"}`},
		{name: "no text block", status: http.StatusOK, body: `{"content":[{"type":"tool_use"}]}`, wantErr: ErrMalformedResponse},
		{name: "garbage body", status: http.StatusOK, body: `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			b := &ClaudeBackend{APIKey: "k", Client: ts.Client(), BaseURL: ts.URL}
			_, err := b.Complete(context.Background(), "p")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestClaudeBackend_RetriesOverloaded(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(529)
			return
		}
		w.Write([]byte(`{"content":[{"type":"text","text":"ok"}]}`))
	}))
	defer ts.Close()

	b := &ClaudeBackend{APIKey: "k", Client: ts.Client(), BaseURL: ts.URL, MaxRetries: 2}
	reply, err := b.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClaudeBackend_MissingKey(t *testing.T) {
	_, err := (&ClaudeBackend{}).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestOpenAIBackend_Complete(t *testing.T) {
	var got openaiRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"isPrivileged\":false,\"confidence\":0.1}"}}]}`))
	}))
	defer ts.Close()

	old := openaiAPIURL
	openaiAPIURL = ts.URL
	defer func() { openaiAPIURL = old }()

	b := &OpenAIBackend{APIKey: "sk-test", Model: "gpt-4o", Client: ts.Client()}
	reply, err := b.Complete(context.Background(), "prompt text")
	require.NoError(t, err)

	assert.Equal(t, `{"isPrivileged":false,"confidence":0.1}`, reply)
	assert.Equal(t, "gpt-4o", got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "prompt text", got.Messages[1].Content)
}

func TestOpenAIBackend_NoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	b := &OpenAIBackend{APIKey: "k", Client: ts.Client(), BaseURL: ts.URL}
	_, err := b.Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestOpenAIBackend_MissingKey(t *testing.T) {
	_, err := (&OpenAIBackend{}).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
