// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package privilege

import (
	"fmt"

	"github.com/pdiddy/privscan/pkg/types"
)

// SensitivityProfile is the weight triple and decision threshold for one
// sensitivity tier. The three weights sum to 1.0.
type SensitivityProfile struct {
	Sensitivity    types.Sensitivity `json:"sensitivity" yaml:"sensitivity"`
	KeywordWeight  float64           `json:"keyword_weight" yaml:"keyword_weight"`
	PatternWeight  float64           `json:"pattern_weight" yaml:"pattern_weight"`
	SemanticWeight float64           `json:"semantic_weight" yaml:"semantic_weight"`
	Threshold      float64           `json:"threshold" yaml:"threshold"`
}

// Higher sensitivity lowers the threshold and leans on the cheap keyword
// signal; lower sensitivity trusts the semantic signal and demands more evidence.
var profiles = [...]SensitivityProfile{
	{types.SensitivityLow, 0.3, 0.3, 0.4, 0.70},
	{types.SensitivityMedium, 0.4, 0.3, 0.3, 0.50},
	{types.SensitivityHigh, 0.5, 0.3, 0.2, 0.30},
}

// Profiles returns every profile, LOW to HIGH.
func Profiles() []SensitivityProfile {
	return append([]SensitivityProfile(nil), profiles[:]...)
}

// ProfileFor returns the profile for s or ErrInvalidSensitivity.
func ProfileFor(s types.Sensitivity) (SensitivityProfile, error) {
	for _, p := range profiles {
		if p.Sensitivity == s {
			return p, nil
		}
	}
	return SensitivityProfile{}, fmt.Errorf("%w: %q", ErrInvalidSensitivity, s)
}

// ParseProfile resolves a user-supplied sensitivity name such as "medium".
func ParseProfile(name string) (SensitivityProfile, error) {
	s, err := types.ParseSensitivity(name)
	if err != nil {
		return SensitivityProfile{}, fmt.Errorf("%w: %w", ErrInvalidSensitivity, err)
	}
	return ProfileFor(s)
}

// Weight returns the weight applied to signals of the given kind.
func (p SensitivityProfile) Weight(kind SignalKind) float64 {
	switch kind {
	case SignalKeyword:
		return p.KeywordWeight
	case SignalPattern:
		return p.PatternWeight
	case SignalSemantic:
		return p.SemanticWeight
	}
	return 0
}
