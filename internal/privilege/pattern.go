// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package privilege

import (
	"context"
	"fmt"
	"regexp"

	"github.com/pdiddy/privscan/pkg/types"
)

// Points per matched pattern, by family.
const (
	attorneyPoints   = 2
	headerPoints     = 3
	letterheadPoints = 2
)

type patternRule struct {
	kind   types.PatternKind
	points float64
	re     *regexp.Regexp
}

// PatternMatcher scans text for structural privilege indicators: attorney
// affiliation, privileged header lines, and law-firm letterhead.
type PatternMatcher struct {
	rules []patternRule
}

var _ Source = (*PatternMatcher)(nil)

// NewPatternMatcher compiles every pattern in set.
func NewPatternMatcher(set PatternSet) (*PatternMatcher, error) {
	m := &PatternMatcher{}
	families := []struct {
		kind    types.PatternKind
		points  float64
		sources []string
	}{
		{types.PatternAttorneyEmail, attorneyPoints, set.Attorney},
		{types.PatternPrivilegedHeader, headerPoints, set.Headers},
		{types.PatternLawFirmLetterhead, letterheadPoints, set.Letterhead},
	}

	for _, f := range families {
		for _, src := range f.sources {
			re, err := regexp.Compile(src)
			if err != nil {
				return nil, fmt.Errorf("%w: %s pattern %q: %w", ErrInvalidTables, f.kind, src, err)
			}
			m.rules = append(m.rules, patternRule{kind: f.kind, points: f.points, re: re})
		}
	}
	return m, nil
}

// Kind returns SignalPattern.
func (m *PatternMatcher) Kind() SignalKind { return SignalPattern }

// Analyze evaluates every pattern and accumulates points for each one that
// matches; an earlier match never short-circuits a later pattern.
func (m *PatternMatcher) Analyze(text string) (float64, []types.PatternFinding) {
	if text == "" {
		return 0, nil
	}

	var raw float64
	var findings []types.PatternFinding
	for _, r := range m.rules {
		loc := r.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		raw += r.points
		findings = append(findings, types.PatternFinding{
			Kind:    r.kind,
			Pattern: r.re.String(),
			Match:   text[loc[0]:loc[1]],
		})
	}
	return raw, findings
}

// Score implements Source.
func (m *PatternMatcher) Score(_ context.Context, doc types.Document) (Signal, error) {
	raw, findings := m.Analyze(doc.Text)
	return Signal{
		Kind:     SignalPattern,
		Score:    types.SignalScore{RawScore: raw, Confidence: NormalizeScore(raw)},
		Patterns: findings,
	}, nil
}
