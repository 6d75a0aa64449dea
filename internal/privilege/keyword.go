// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package privilege

import (
	"context"
	"strings"

	"github.com/pdiddy/privscan/pkg/types"
)

type keywordTier struct {
	tier     types.Tier
	keywords []string
	lowered  []string
}

// KeywordScorer scans text for tiered privilege keywords.
type KeywordScorer struct {
	tiers []keywordTier
}

var _ Source = (*KeywordScorer)(nil)

// NewKeywordScorer builds a scorer from the given tables. Keywords are
// lower-cased once here rather than per document.
func NewKeywordScorer(t KeywordTables) *KeywordScorer {
	k := &KeywordScorer{}
	for _, tl := range []struct {
		tier  types.Tier
		words []string
	}{
		{types.TierHigh, t.High},
		{types.TierMedium, t.Medium},
		{types.TierLow, t.Low},
	} {
		kt := keywordTier{tier: tl.tier}
		for _, w := range tl.words {
			if strings.TrimSpace(w) == "" {
				continue
			}
			kt.keywords = append(kt.keywords, w)
			kt.lowered = append(kt.lowered, strings.ToLower(w))
		}
		k.tiers = append(k.tiers, kt)
	}
	return k
}

// Kind returns SignalKeyword.
func (k *KeywordScorer) Kind() SignalKind { return SignalKeyword }

// Analyze adds 3, 2, or 1 points for every HIGH, MEDIUM, or LOW keyword
// present as a case-insensitive substring.
func (k *KeywordScorer) Analyze(text string) (types.SignalScore, []types.KeywordFinding) {
	if text == "" {
		return types.SignalScore{}, nil
	}

	lower := strings.ToLower(text)
	var raw float64
	var findings []types.KeywordFinding

	for _, kt := range k.tiers {
		for i, kw := range kt.lowered {
			if !strings.Contains(lower, kw) {
				continue
			}
			raw += kt.tier.Points()
			findings = append(findings, types.KeywordFinding{Keyword: kt.keywords[i], Tier: kt.tier})
		}
	}

	return types.SignalScore{RawScore: raw, Confidence: NormalizeScore(raw)}, findings
}

// Score implements Source.
func (k *KeywordScorer) Score(_ context.Context, doc types.Document) (Signal, error) {
	score, findings := k.Analyze(doc.Text)
	return Signal{Kind: SignalKeyword, Score: score, Keywords: findings}, nil
}
