// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package semantic

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 5))
	assert.Equal(t, "ab", truncateRunes("abc", 2))
	assert.Equal(t, "", truncateRunes("abc", 0))
	assert.Equal(t, "héé", truncateRunes("héééé", 3))
}

func TestRenderPrompt_TruncatesExcerpt(t *testing.T) {
	text := strings.Repeat("é", MaxExcerptRunes) + "TAIL-MARKER"

	prompt, err := renderPrompt(text)
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(prompt))
	assert.NotContains(t, prompt, "TAIL-MARKER")
	assert.Contains(t, prompt, "first 2000 characters")
	assert.Contains(t, prompt, `"privilegeType": "attorney-client" | "work-product" | "none"`)
}

func TestRenderPrompt_ShortText(t *testing.T) {
	prompt, err := renderPrompt("Please advise on the settlement terms.")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(prompt), "Please advise on the settlement terms."))
}
