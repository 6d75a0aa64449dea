// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package privilege

import (
	"fmt"
)

// Verdict is the aggregator's decision for one document.
type Verdict struct {
	IsPrivileged bool
	Confidence   float64
	Reasons      []string
	Keywords     []string
}

// weightEpsilon absorbs float error when comparing a weight sum to 1.
const weightEpsilon = 1e-9

// Aggregate combines signals under profile into a verdict.
//
// Each signal contributes Confidence()*weight. When signals are missing (in
// practice only the semantic one) the partial sum is divided by the weight
// of the signals present, so an absent signal does not deflate confidence.
// With the keyword and pattern signals present this is division by
// (1 - semantic weight). No present weight means confidence 0.
func Aggregate(signals []Signal, profile SensitivityProfile) Verdict {
	var sum, present float64
	var keywordMatches, patternMatches int
	var semantic *Signal
	var keywords []string
	seen := make(map[string]bool)

	for i := range signals {
		s := &signals[i]
		w := profile.Weight(s.Kind)
		sum += s.Confidence() * w
		present += w

		switch s.Kind {
		case SignalKeyword:
			keywordMatches += len(s.Keywords)
			for _, f := range s.Keywords {
				if !seen[f.Keyword] {
					seen[f.Keyword] = true
					keywords = append(keywords, f.Keyword)
				}
			}
		case SignalPattern:
			patternMatches += len(s.Patterns)
		case SignalSemantic:
			semantic = s
		}
	}

	var confidence float64
	switch {
	case present <= 0:
		confidence = 0
	case 1-present > weightEpsilon:
		confidence = clamp(sum / present)
	default:
		confidence = clamp(sum)
	}

	v := Verdict{
		IsPrivileged: confidence >= profile.Threshold,
		Confidence:   confidence,
		Keywords:     keywords,
	}
	if v.Keywords == nil {
		v.Keywords = []string{}
	}

	if keywordMatches > 0 {
		v.Reasons = append(v.Reasons, fmt.Sprintf("Found %d privilege-related keywords", keywordMatches))
	}
	if patternMatches > 0 {
		v.Reasons = append(v.Reasons, fmt.Sprintf("Matched %d privilege patterns", patternMatches))
	}
	if semantic != nil && semantic.Verdict != nil && semantic.Verdict.Reasoning != "" {
		v.Reasons = append(v.Reasons, semantic.Verdict.Reasoning)
	}
	if v.IsPrivileged && len(v.Reasons) == 0 {
		v.Reasons = append(v.Reasons, fmt.Sprintf(
			"Aggregate confidence %.2f met the %s threshold of %.2f",
			confidence, profile.Sensitivity, profile.Threshold,
		))
	}
	if v.Reasons == nil {
		v.Reasons = []string{}
	}

	return v
}
