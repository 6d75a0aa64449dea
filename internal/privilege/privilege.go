// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package privilege flags documents likely protected by attorney-client
// privilege or work-product doctrine. Three signal sources (keywords,
// structural patterns, and an optional semantic provider) are combined by a
// sensitivity-weighted aggregator into one explainable verdict.
package privilege

import (
	"context"
	"errors"
	"math"

	"github.com/pdiddy/privscan/pkg/types"
)

// Sentinel errors for detection.
var (
	// ErrInvalidSensitivity is a configuration error: no weight table exists
	// for the requested tier.
	ErrInvalidSensitivity = errors.New("invalid sensitivity")

	// ErrInvalidTables reports an unusable keyword or pattern table.
	ErrInvalidTables = errors.New("invalid privilege tables")

	// ErrSemanticUnavailable marks a semantic stage that failed, timed out, or
	// returned an unusable verdict. The pipeline recovers from it.
	ErrSemanticUnavailable = errors.New("semantic stage unavailable")
)

// SignalKind identifies which stage produced a signal.
type SignalKind string

const (
	SignalKeyword  SignalKind = "keyword"
	SignalPattern  SignalKind = "pattern"
	SignalSemantic SignalKind = "semantic"
)

// Signal is the output of one stage for one document.
type Signal struct {
	Kind     SignalKind
	Score    types.SignalScore
	Keywords []types.KeywordFinding
	Patterns []types.PatternFinding
	Verdict  *types.SemanticVerdict
}

// Confidence returns the confidence the aggregator weighs. Deterministic
// signals are re-derived from their raw score; the semantic signal carries
// the provider's own confidence.
func (s Signal) Confidence() float64 {
	if s.Kind == SignalSemantic {
		return clamp(s.Score.Confidence)
	}
	return NormalizeScore(s.Score.RawScore)
}

// Source produces a Signal for a document.
type Source interface {
	Kind() SignalKind
	Score(ctx context.Context, doc types.Document) (Signal, error)
}

// NormalizeScore maps a raw additive score onto [0,1] as min(raw/10, 1).
func NormalizeScore(raw float64) float64 {
	return clamp(raw / 10)
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, 1)
}
