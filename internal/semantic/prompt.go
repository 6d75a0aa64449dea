// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package semantic

import (
	"bytes"
	"text/template"
	"unicode/utf8"
)

// systemPrompt frames the model as a privilege reviewer. Backends that
// support a system role send it there.
const systemPrompt = `You are an expert legal privilege reviewer with deep knowledge of:

- Attorney-client privilege requirements and exceptions
- Work product doctrine
- Common interest privilege
- Crime-fraud exception
- Waiver of privilege
- Federal Rules of Evidence 502

You analyze documents to determine if they are protected by privilege. Privilege determinations are critical and must be conservative: when in doubt, flag for attorney review. Always answer with a single JSON object and nothing else.`

var privilegePromptTmpl = template.Must(template.New("privilege").Parse(`Analyze this document for attorney-client privilege or work product protection.

Consider:
1. Is this a communication between attorney and client?
2. Was legal advice sought or provided?
3. Is this work product prepared in anticipation of litigation?
4. Are there explicit privilege assertions?
5. Is the communication confidential?

Respond in JSON format:
{
  "isPrivileged": boolean,
  "confidence": number (0-1),
  "reasoning": "explanation",
  "privilegeType": "attorney-client" | "work-product" | "none"
}

Document excerpt (first {{.Limit}} characters):
{{.Excerpt}}
`))

// renderPrompt executes the privilege prompt template for text, truncated to
// MaxExcerptRunes.
func renderPrompt(text string) (string, error) {
	var buf bytes.Buffer
	err := privilegePromptTmpl.Execute(&buf, struct {
		Limit   int
		Excerpt string
	}{Limit: MaxExcerptRunes, Excerpt: truncateRunes(text, MaxExcerptRunes)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// truncateRunes returns at most n runes of s without splitting a character.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
