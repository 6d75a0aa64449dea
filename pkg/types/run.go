// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DetectionRun is one invocation of detection over a batch of documents,
// as written to the results file and the review store.
type DetectionRun struct {
	ID          string      `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time   `json:"generated_at" yaml:"generated_at"`
	Sensitivity Sensitivity `json:"sensitivity" yaml:"sensitivity"`

	// Provider is the semantic provider id, empty when the stage was disabled.
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`

	PrivilegeReport `yaml:",inline"`
}
