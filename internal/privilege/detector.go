// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package privilege

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/privscan/internal/metrics"
	"github.com/pdiddy/privscan/pkg/types"
)

const (
	defaultMaxInFlight = 4
	defaultTimeout     = 30 * time.Second
)

// Config configures a Detector.
type Config struct {
	Sensitivity types.Sensitivity

	// Provider is passed through to the SemanticAnalyzer.
	Provider string

	// MaxInFlight bounds concurrent semantic calls within DetectAll (default 4).
	MaxInFlight int

	// Timeout bounds each semantic call (default 30s).
	Timeout time.Duration

	// Tables replaces the built-in tables when non-zero.
	Tables Tables
}

// Option customizes a Detector.
type Option func(*Detector)

// WithSemantic enables the semantic stage. A nil analyzer leaves it disabled.
func WithSemantic(a SemanticAnalyzer) Option {
	return func(d *Detector) { d.analyzer = a }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logrus.Logger) Option {
	return func(d *Detector) { d.logger = l }
}

// WithMetrics records outcomes in r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(d *Detector) { d.metrics = r }
}

// Detector orchestrates the keyword, pattern, and semantic stages and the
// aggregator for each document. It holds no per-document state and is safe
// for concurrent use.
type Detector struct {
	profile     SensitivityProfile
	keywords    *KeywordScorer
	patterns    *PatternMatcher
	analyzer    SemanticAnalyzer
	semantic    *SemanticSource
	maxInFlight int
	logger      *logrus.Logger
	metrics     *metrics.Recorder
}

// NewDetector validates cfg and builds a Detector. An unknown sensitivity or
// an uncompilable pattern fails here, before any document is processed.
func NewDetector(cfg Config, opts ...Option) (*Detector, error) {
	profile, err := ProfileFor(cfg.Sensitivity)
	if err != nil {
		return nil, err
	}

	tables := cfg.Tables
	if tables.IsZero() {
		tables = DefaultTables()
	}
	patterns, err := NewPatternMatcher(tables.Patterns)
	if err != nil {
		return nil, err
	}

	d := &Detector{
		profile:     profile,
		keywords:    NewKeywordScorer(tables.Keywords),
		patterns:    patterns,
		maxInFlight: cfg.MaxInFlight,
	}
	if d.maxInFlight <= 0 {
		d.maxInFlight = defaultMaxInFlight
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = logrus.New()
		d.logger.SetOutput(io.Discard)
	}

	if d.analyzer != nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		d.semantic = &SemanticSource{Analyzer: d.analyzer, Provider: cfg.Provider, Timeout: timeout}
	}

	return d, nil
}

// Profile returns the sensitivity profile in use.
func (d *Detector) Profile() SensitivityProfile {
	return d.profile
}

// evaluation carries one document through the pipeline.
type evaluation struct {
	doc      types.Document
	keyword  Signal
	pattern  Signal
	semantic *Signal
	status   types.SemanticStatus
}

// Detect evaluates a single document.
func (d *Detector) Detect(ctx context.Context, doc types.Document) types.DetectionResult {
	return d.DetectAll(ctx, []types.Document{doc})[0]
}

// DetectAll evaluates docs and returns one result per document, in input
// order. The deterministic stages run inline for every document first; the
// documents that need the semantic stage are then fanned out with at most
// MaxInFlight provider calls in flight. A failed, timed-out, or cancelled
// semantic call degrades only its own document to the two-signal result.
func (d *Detector) DetectAll(ctx context.Context, docs []types.Document) []types.DetectionResult {
	evals := make([]evaluation, len(docs))
	for i, doc := range docs {
		evals[i] = d.scan(doc)
	}

	var g errgroup.Group
	g.SetLimit(d.maxInFlight)
	for i := range evals {
		if evals[i].status != types.SemanticRan {
			continue
		}
		g.Go(func() error {
			d.runSemantic(ctx, &evals[i])
			return nil
		})
	}
	_ = g.Wait()

	results := make([]types.DetectionResult, len(evals))
	var privileged int
	for i := range evals {
		results[i] = d.finish(&evals[i])
		if results[i].IsPrivileged {
			privileged++
		}
	}

	d.logger.WithFields(logrus.Fields{
		"documents":   len(docs),
		"privileged":  privileged,
		"sensitivity": d.profile.Sensitivity,
	}).Debug("detection batch complete")

	return results
}

// scan runs the deterministic stages and decides whether the semantic stage
// should run. status is SemanticRan for documents still waiting on it.
func (d *Detector) scan(doc types.Document) evaluation {
	ev := evaluation{doc: doc}

	if strings.TrimSpace(doc.Text) == "" {
		d.logger.WithField("document", doc.ID).Warn("empty document text, scoring as zero-signal")
	}

	// Neither deterministic source can fail.
	ev.keyword, _ = d.keywords.Score(context.Background(), doc)
	ev.pattern, _ = d.patterns.Score(context.Background(), doc)

	switch {
	case d.semantic == nil:
		ev.status = types.SemanticDisabled
	case strings.TrimSpace(doc.Text) == "":
		ev.status = types.SemanticSkipped
	case ev.keyword.Confidence() >= SemanticSkipConfidence:
		ev.status = types.SemanticSkipped
	default:
		ev.status = types.SemanticRan
	}
	return ev
}

func (d *Detector) runSemantic(ctx context.Context, ev *evaluation) {
	start := time.Now()
	sig, err := d.semantic.Score(ctx, ev.doc)
	elapsed := time.Since(start)

	if err != nil {
		ev.status = types.SemanticUnavailable
		outcome := metrics.OutcomeError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome = metrics.OutcomeUnavailable
		}
		d.metrics.ObserveSemantic(d.semantic.Provider, outcome, elapsed)
		d.logger.WithFields(logrus.Fields{
			"document": ev.doc.ID,
			"provider": d.semantic.Provider,
			"elapsed":  elapsed.String(),
		}).WithError(err).Warn("semantic stage unavailable, using keyword and pattern signals only")
		return
	}

	d.metrics.ObserveSemantic(d.semantic.Provider, metrics.OutcomeOK, elapsed)
	ev.semantic = &sig
}

func (d *Detector) finish(ev *evaluation) types.DetectionResult {
	signals := []Signal{ev.keyword, ev.pattern}
	if ev.semantic != nil {
		signals = append(signals, *ev.semantic)
	}
	v := Aggregate(signals, d.profile)

	diag := types.Diagnostics{
		KeywordScore:      ev.keyword.Score.RawScore,
		KeywordConfidence: ev.keyword.Confidence(),
		PatternScore:      ev.pattern.Score.RawScore,
		PatternConfidence: ev.pattern.Confidence(),
		SemanticStatus:    ev.status,
		Patterns:          ev.pattern.Patterns,
		Sensitivity:       d.profile.Sensitivity,
		Threshold:         d.profile.Threshold,
	}
	if ev.semantic != nil {
		score := ev.semantic.Score.RawScore
		conf := ev.semantic.Confidence()
		diag.SemanticScore = &score
		diag.SemanticConfidence = &conf
		diag.PrivilegeType = ev.semantic.Verdict.PrivilegeType
	}

	switch ev.status {
	case types.SemanticSkipped:
		d.metrics.ObserveSemantic(d.semanticProvider(), metrics.OutcomeSkipped, 0)
	case types.SemanticDisabled:
		d.metrics.ObserveSemantic(d.semanticProvider(), metrics.OutcomeDisabled, 0)
	}
	d.metrics.ObserveDocument(v.IsPrivileged, v.Confidence)

	return types.DetectionResult{
		DocumentID:   ev.doc.ID,
		IsPrivileged: v.IsPrivileged,
		Confidence:   v.Confidence,
		Reasons:      v.Reasons,
		Keywords:     v.Keywords,
		Diagnostics:  diag,
	}
}

func (d *Detector) semanticProvider() string {
	if d.semantic == nil {
		return "none"
	}
	return d.semantic.Provider
}

// String describes the detector for logs.
func (d *Detector) String() string {
	return fmt.Sprintf("privilege.Detector{sensitivity=%s semantic=%s max_in_flight=%d}",
		d.profile.Sensitivity, d.semanticProvider(), d.maxInFlight)
}
