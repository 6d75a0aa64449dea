// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package privilege

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pdiddy/privscan/pkg/types"
)

// SemanticSkipConfidence is the keyword confidence at or above which the
// semantic stage is not called.
const SemanticSkipConfidence = 0.9

// SemanticAnalyzer judges a document with an external language-model
// provider chosen by id. Implementations may fail for any reason; the
// detector treats every failure as an absent verdict.
type SemanticAnalyzer interface {
	Analyze(ctx context.Context, text, provider string) (types.SemanticVerdict, error)
}

// SemanticAnalyzerFunc adapts a function to SemanticAnalyzer.
type SemanticAnalyzerFunc func(ctx context.Context, text, provider string) (types.SemanticVerdict, error)

// Analyze calls f.
func (f SemanticAnalyzerFunc) Analyze(ctx context.Context, text, provider string) (types.SemanticVerdict, error) {
	return f(ctx, text, provider)
}

// SemanticSource wraps an analyzer as a Source with a per-call timeout.
type SemanticSource struct {
	Analyzer SemanticAnalyzer
	Provider string
	Timeout  time.Duration
}

var _ Source = (*SemanticSource)(nil)

// Kind returns SignalSemantic.
func (s *SemanticSource) Kind() SignalKind { return SignalSemantic }

// Score calls the analyzer. Every failure, including an out-of-range
// confidence, is returned wrapped in ErrSemanticUnavailable.
func (s *SemanticSource) Score(ctx context.Context, doc types.Document) (Signal, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	v, err := s.Analyzer.Analyze(ctx, doc.Text, s.Provider)
	if err != nil {
		return Signal{}, fmt.Errorf("%w: %s: %w", ErrSemanticUnavailable, s.Provider, err)
	}
	if math.IsNaN(v.Confidence) || v.Confidence < 0 || v.Confidence > 1 {
		return Signal{}, fmt.Errorf("%w: %s: confidence %v out of range [0,1]", ErrSemanticUnavailable, s.Provider, v.Confidence)
	}
	if v.PrivilegeType == "" {
		v.PrivilegeType = types.PrivilegeNone
	}

	return Signal{
		Kind:    SignalSemantic,
		Score:   types.SignalScore{RawScore: v.Score(), Confidence: v.Confidence},
		Verdict: &v,
	}, nil
}
