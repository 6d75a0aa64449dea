// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package privilege

import "github.com/pdiddy/privscan/pkg/types"

// Partition sorts results into privileged, non-privileged, and high-risk
// buckets, preserving input order. High-risk results (privileged with
// confidence above 0.8) appear in both Privileged and HighRisk.
func Partition(results []types.DetectionResult) types.PrivilegeReport {
	r := types.PrivilegeReport{
		Total:         len(results),
		Privileged:    []types.DetectionResult{},
		NonPrivileged: []types.DetectionResult{},
		HighRisk:      []types.DetectionResult{},
	}
	for _, res := range results {
		if !res.IsPrivileged {
			r.NonPrivileged = append(r.NonPrivileged, res)
			continue
		}
		r.Privileged = append(r.Privileged, res)
		if res.HighRisk() {
			r.HighRisk = append(r.HighRisk, res)
		}
	}
	return r
}
