// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the documents, signals, verdicts, and configuration
// shared by the privscan packages.
package types

import (
	"fmt"
	"strings"
)

// Tier ranks a privilege keyword by how strongly it indicates protection.
type Tier string

const (
	TierHigh   Tier = "HIGH"
	TierMedium Tier = "MEDIUM"
	TierLow    Tier = "LOW"
)

// Points returns the raw score contributed by one keyword match in this tier.
func (t Tier) Points() float64 {
	switch t {
	case TierHigh:
		return 3
	case TierMedium:
		return 2
	case TierLow:
		return 1
	}
	return 0
}

// KeywordFinding records one keyword found in a document's text.
type KeywordFinding struct {
	Keyword string `json:"keyword" yaml:"keyword"`
	Tier    Tier   `json:"tier" yaml:"tier"`
}

// PatternKind groups structural privilege patterns into families.
type PatternKind string

const (
	PatternAttorneyEmail     PatternKind = "attorney_email"
	PatternPrivilegedHeader  PatternKind = "privileged_header"
	PatternLawFirmLetterhead PatternKind = "law_firm_letterhead"
)

// PatternFinding records one structural pattern matched in a document.
type PatternFinding struct {
	Kind PatternKind `json:"kind" yaml:"kind"`

	// Pattern is the regular expression source that matched.
	Pattern string `json:"pattern" yaml:"pattern"`

	// Match is the first matched text.
	Match string `json:"match" yaml:"match"`
}

// SignalScore is the common output shape of every detection stage.
type SignalScore struct {
	RawScore   float64 `json:"raw_score" yaml:"raw_score"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// PrivilegeType classifies the doctrine a semantic verdict relies on.
type PrivilegeType string

const (
	PrivilegeAttorneyClient PrivilegeType = "attorney-client"
	PrivilegeWorkProduct    PrivilegeType = "work-product"
	PrivilegeNone           PrivilegeType = "none"
)

// ParsePrivilegeType accepts the hyphenated, underscored, and upper-case
// spellings language models tend to produce.
func ParsePrivilegeType(s string) (PrivilegeType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "_", "-")
	norm = strings.ReplaceAll(norm, " ", "-")
	switch PrivilegeType(norm) {
	case PrivilegeAttorneyClient, PrivilegeWorkProduct, PrivilegeNone:
		return PrivilegeType(norm), nil
	case "":
		return PrivilegeNone, nil
	}
	return "", fmt.Errorf("unknown privilege type %q", s)
}

// SemanticVerdict is the normalized judgment returned by a language-model provider.
type SemanticVerdict struct {
	IsPrivileged  bool          `json:"is_privileged" yaml:"is_privileged"`
	Confidence    float64       `json:"confidence" yaml:"confidence"`
	Reasoning     string        `json:"reasoning" yaml:"reasoning"`
	PrivilegeType PrivilegeType `json:"privilege_type" yaml:"privilege_type"`
}

// Score returns the raw semantic score: ten times the confidence for a
// privileged verdict, zero otherwise.
func (v SemanticVerdict) Score() float64 {
	if !v.IsPrivileged {
		return 0
	}
	return v.Confidence * 10
}

// Sensitivity selects a weight/threshold profile for aggregation.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "LOW"
	SensitivityMedium Sensitivity = "MEDIUM"
	SensitivityHigh   Sensitivity = "HIGH"
)

// ParseSensitivity accepts low, medium, or high in any case.
// The returned error wraps nothing; callers wrap it with their own sentinel.
func ParseSensitivity(s string) (Sensitivity, error) {
	switch v := Sensitivity(strings.ToUpper(strings.TrimSpace(s))); v {
	case SensitivityLow, SensitivityMedium, SensitivityHigh:
		return v, nil
	}
	return "", fmt.Errorf("unrecognized sensitivity %q: use low, medium, or high", s)
}

// DocumentMetadata carries optional facts recorded by the extraction step.
type DocumentMetadata struct {
	Size      int64 `json:"size,omitempty" yaml:"size,omitempty"`
	WordCount int   `json:"word_count,omitempty" yaml:"word_count,omitempty"`
}

// Document is one unit of extracted text submitted for privilege review.
type Document struct {
	// ID is the source path or another stable identifier.
	ID       string           `json:"id" yaml:"id"`
	Text     string           `json:"-" yaml:"-"`
	Metadata DocumentMetadata `json:"metadata" yaml:"metadata"`
}

// SemanticStatus records what happened to the semantic stage for a document.
type SemanticStatus string

const (
	SemanticRan         SemanticStatus = "ran"
	SemanticSkipped     SemanticStatus = "skipped"
	SemanticDisabled    SemanticStatus = "disabled"
	SemanticUnavailable SemanticStatus = "unavailable"
)

// Diagnostics exposes every intermediate score so a reviewer can reconstruct
// a verdict without re-running detection.
type Diagnostics struct {
	KeywordScore       float64          `json:"keyword_score" yaml:"keyword_score"`
	KeywordConfidence  float64          `json:"keyword_confidence" yaml:"keyword_confidence"`
	PatternScore       float64          `json:"pattern_score" yaml:"pattern_score"`
	PatternConfidence  float64          `json:"pattern_confidence" yaml:"pattern_confidence"`
	SemanticScore      *float64         `json:"semantic_score" yaml:"semantic_score"`
	SemanticConfidence *float64         `json:"semantic_confidence" yaml:"semantic_confidence"`
	SemanticStatus     SemanticStatus   `json:"semantic_status" yaml:"semantic_status"`
	PrivilegeType      PrivilegeType    `json:"privilege_type,omitempty" yaml:"privilege_type,omitempty"`
	Patterns           []PatternFinding `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	Sensitivity        Sensitivity      `json:"sensitivity" yaml:"sensitivity"`
	Threshold          float64          `json:"threshold" yaml:"threshold"`
}

// DetectionResult is the terminal verdict for one document.
type DetectionResult struct {
	DocumentID   string      `json:"document" yaml:"document"`
	IsPrivileged bool        `json:"is_privileged" yaml:"is_privileged"`
	Confidence   float64     `json:"confidence" yaml:"confidence"`
	Reasons      []string    `json:"reasons" yaml:"reasons"`
	Keywords     []string    `json:"keywords" yaml:"keywords"`
	Diagnostics  Diagnostics `json:"metadata" yaml:"metadata"`
}

// HighRiskConfidence is the confidence above which a privileged document is high risk.
const HighRiskConfidence = 0.8

// HighRisk reports whether the result is privileged with confidence above HighRiskConfidence.
func (r DetectionResult) HighRisk() bool {
	return r.IsPrivileged && r.Confidence > HighRiskConfidence
}

// Bucket names a reporting partition.
type Bucket string

const (
	BucketPrivileged    Bucket = "privileged"
	BucketNonPrivileged Bucket = "non-privileged"
	BucketHighRisk      Bucket = "high-risk"
)

// ParseBucket validates a bucket name; the empty string means all results.
func ParseBucket(s string) (Bucket, error) {
	switch b := Bucket(strings.ToLower(strings.TrimSpace(s))); b {
	case "", BucketPrivileged, BucketNonPrivileged, BucketHighRisk:
		return b, nil
	}
	return "", fmt.Errorf("unknown bucket %q: use privileged, non-privileged, or high-risk", s)
}

// Contains reports whether r belongs in bucket b. The empty bucket holds everything.
func (b Bucket) Contains(r DetectionResult) bool {
	switch b {
	case BucketPrivileged:
		return r.IsPrivileged
	case BucketNonPrivileged:
		return !r.IsPrivileged
	case BucketHighRisk:
		return r.HighRisk()
	}
	return true
}

// PrivilegeReport partitions a batch of results for downstream reporting.
// High-risk results also appear in Privileged.
type PrivilegeReport struct {
	Total         int               `json:"total" yaml:"total"`
	Privileged    []DetectionResult `json:"privileged_documents" yaml:"privileged_documents"`
	NonPrivileged []DetectionResult `json:"non_privileged_documents" yaml:"non_privileged_documents"`
	HighRisk      []DetectionResult `json:"high_risk_documents" yaml:"high_risk_documents"`
}
