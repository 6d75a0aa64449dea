// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package privilege

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"go.yaml.in/yaml/v3"
)

// KeywordTables lists privilege keywords by tier. Tiers are expected to be
// disjoint, but a keyword listed twice is scored twice rather than rejected.
type KeywordTables struct {
	High   []string `json:"high" yaml:"high" toml:"high"`
	Medium []string `json:"medium" yaml:"medium" toml:"medium"`
	Low    []string `json:"low" yaml:"low" toml:"low"`
}

// PatternSet lists regular expressions (RE2 syntax) by family.
type PatternSet struct {
	Attorney   []string `json:"attorney" yaml:"attorney" toml:"attorney"`
	Headers    []string `json:"headers" yaml:"headers" toml:"headers"`
	Letterhead []string `json:"letterhead" yaml:"letterhead" toml:"letterhead"`
}

// Tables is the immutable lexical and structural configuration injected
// into a Detector.
type Tables struct {
	Keywords KeywordTables `json:"keywords" yaml:"keywords" toml:"keywords"`
	Patterns PatternSet    `json:"patterns" yaml:"patterns" toml:"patterns"`
}

// IsZero reports whether no keyword or pattern is configured.
func (t Tables) IsZero() bool {
	return len(t.Keywords.High)+len(t.Keywords.Medium)+len(t.Keywords.Low) == 0 &&
		len(t.Patterns.Attorney)+len(t.Patterns.Headers)+len(t.Patterns.Letterhead) == 0
}

// DefaultTables returns a fresh copy of the built-in tables.
func DefaultTables() Tables {
	return Tables{
		Keywords: KeywordTables{
			High: []string{
				"attorney-client privilege",
				"work product",
				"privileged and confidential",
				"attorney work product",
				"legal advice",
				"in anticipation of litigation",
				"prepared for litigation",
			},
			Medium: []string{
				"confidential communication",
				"attorney",
				"counsel",
				"legal opinion",
				"lawyer",
				"law firm",
				"privileged",
				"attorney communication",
			},
			Low: []string{
				"confidential",
				"legal",
				"advice",
				"discussion with counsel",
			},
		},
		Patterns: PatternSet{
			Attorney: []string{
				`(?i)@[\w.-]*law\.com\b`,
				`(?i)@[\w.-]*legal\.com\b`,
				`(?im)\besq\.?[ \t]*\r?$`,
				`(?i)attorney`,
				`(?i)counsel`,
			},
			Headers: []string{
				`(?im)^(?:subject|re):(?:[ \t]|\r?\n[ \t])*(?:(?:re|fwd?):(?:[ \t]|\r?\n[ \t])*)*privileged`,
				`(?im)^(?:subject|re):(?:[ \t]|\r?\n[ \t])*(?:(?:re|fwd?):(?:[ \t]|\r?\n[ \t])*)*attorney-client`,
				`(?im)^(?:subject|re):(?:[ \t]|\r?\n[ \t])*(?:(?:re|fwd?):(?:[ \t]|\r?\n[ \t])*)*confidential`,
			},
			Letterhead: []string{
				`(?i)\b\w+\s*,\s*\w+\s*&\s*\w+\s*llp\b`,
				`(?i)\b\w+\s*law\s*firm\b`,
				`(?i)\battorneys?\s*at\s*law\b`,
			},
		},
	}
}

// LoadTables reads a tables file, TOML when the name ends in .toml and YAML
// otherwise. Any list the file omits keeps its default value, so a file may
// override only the sections it names.
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("%w: reading %s: %w", ErrInvalidTables, path, err)
	}

	var override Tables
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err = toml.Decode(string(data), &override)
	} else {
		err = yaml.Unmarshal(data, &override)
	}
	if err != nil {
		return Tables{}, fmt.Errorf("%w: parsing %s: %w", ErrInvalidTables, path, err)
	}

	t := DefaultTables()
	overlay(&t.Keywords.High, override.Keywords.High)
	overlay(&t.Keywords.Medium, override.Keywords.Medium)
	overlay(&t.Keywords.Low, override.Keywords.Low)
	overlay(&t.Patterns.Attorney, override.Patterns.Attorney)
	overlay(&t.Patterns.Headers, override.Patterns.Headers)
	overlay(&t.Patterns.Letterhead, override.Patterns.Letterhead)

	if _, err := NewPatternMatcher(t.Patterns); err != nil {
		return Tables{}, err
	}
	return t, nil
}

func overlay(dst *[]string, src []string) {
	if src != nil {
		*dst = slices.Clone(src)
	}
}
