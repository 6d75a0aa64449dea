// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package privilege

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/privscan/pkg/types"
)

func TestProfiles_WeightsSumToOne(t *testing.T) {
	for _, p := range Profiles() {
		t.Run(string(p.Sensitivity), func(t *testing.T) {
			sum := p.Weight(SignalKeyword) + p.Weight(SignalPattern) + p.Weight(SignalSemantic)
			assert.InDelta(t, 1.0, sum, 1e-12)
		})
	}
}

func TestProfiles_HigherSensitivityLowersThreshold(t *testing.T) {
	low, err := ProfileFor(types.SensitivityLow)
	require.NoError(t, err)
	medium, err := ProfileFor(types.SensitivityMedium)
	require.NoError(t, err)
	high, err := ProfileFor(types.SensitivityHigh)
	require.NoError(t, err)

	assert.Greater(t, low.Threshold, medium.Threshold)
	assert.Greater(t, medium.Threshold, high.Threshold)
	assert.Less(t, low.KeywordWeight, high.KeywordWeight)
	assert.Greater(t, low.SemanticWeight, high.SemanticWeight)
}

func TestProfileFor_Table(t *testing.T) {
	tests := []struct {
		s                      types.Sensitivity
		kw, pat, sem, treshold float64
	}{
		{types.SensitivityLow, 0.3, 0.3, 0.4, 0.70},
		{types.SensitivityMedium, 0.4, 0.3, 0.3, 0.50},
		{types.SensitivityHigh, 0.5, 0.3, 0.2, 0.30},
	}
	for _, tt := range tests {
		p, err := ProfileFor(tt.s)
		require.NoError(t, err)
		assert.Equal(t, tt.kw, p.KeywordWeight)
		assert.Equal(t, tt.pat, p.PatternWeight)
		assert.Equal(t, tt.sem, p.SemanticWeight)
		assert.Equal(t, tt.treshold, p.Threshold)
	}
}

func TestParseProfile(t *testing.T) {
	tests := []struct {
		in      string
		want    types.Sensitivity
		wantErr bool
	}{
		{"low", types.SensitivityLow, false},
		{"Medium", types.SensitivityMedium, false},
		{" HIGH ", types.SensitivityHigh, false},
		{"", "", true},
		{"extreme", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParseProfile(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidSensitivity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Sensitivity)
		})
	}
}

func TestProfileFor_Unknown(t *testing.T) {
	_, err := ProfileFor("CRITICAL")
	assert.ErrorIs(t, err, ErrInvalidSensitivity)
}
