// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package semantic

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pdiddy/privscan/pkg/types"
)

//go:embed verdict.schema.json
var verdictSchemaJSON []byte

const verdictSchemaURL = "verdict.schema.json"

var verdictSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(verdictSchemaURL, bytes.NewReader(verdictSchemaJSON)); err != nil {
		panic(fmt.Sprintf("adding verdict schema: %v", err))
	}
	schema, err := compiler.Compile(verdictSchemaURL)
	if err != nil {
		panic(fmt.Sprintf("compiling verdict schema: %v", err))
	}
	return schema
}

// wireVerdict is the JSON object the prompt asks the model to return.
type wireVerdict struct {
	IsPrivileged  bool    `json:"isPrivileged"`
	Confidence    float64 `json:"confidence"`
	Reasoning     string  `json:"reasoning"`
	PrivilegeType string  `json:"privilegeType"`
}

// ParseVerdict extracts, validates, and decodes the verdict object from a
// model reply. Code fences and prose around the object are tolerated.
func ParseVerdict(reply string) (types.SemanticVerdict, error) {
	raw, err := isolateObject(reply)
	if err != nil {
		return types.SemanticVerdict{}, err
	}

	var instance any
	if err := json.Unmarshal([]byte(raw), &instance); err != nil {
		return types.SemanticVerdict{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if err := verdictSchema.Validate(instance); err != nil {
		return types.SemanticVerdict{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	var w wireVerdict
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return types.SemanticVerdict{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	pt, err := types.ParsePrivilegeType(w.PrivilegeType)
	if err != nil {
		return types.SemanticVerdict{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return types.SemanticVerdict{
		IsPrivileged:  w.IsPrivileged,
		Confidence:    w.Confidence,
		Reasoning:     strings.TrimSpace(w.Reasoning),
		PrivilegeType: pt,
	}, nil
}

// isolateObject strips Markdown code fences and returns the outermost
// {...} span of s.
func isolateObject(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: no JSON object in reply", ErrMalformedResponse)
	}
	return s[start : end+1], nil
}
