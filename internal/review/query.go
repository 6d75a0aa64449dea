// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/privscan/internal/privilege"
	"github.com/pdiddy/privscan/pkg/types"
)

// RunSummary is one row of the run history.
type RunSummary struct {
	ID          string            `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time         `json:"generated_at" yaml:"generated_at"`
	Sensitivity types.Sensitivity `json:"sensitivity" yaml:"sensitivity"`
	Provider    string            `json:"provider,omitempty" yaml:"provider,omitempty"`
	Total       int               `json:"total" yaml:"total"`
	Privileged  int               `json:"privileged" yaml:"privileged"`
	HighRisk    int               `json:"high_risk" yaml:"high_risk"`
}

// Query selects results from one run.
type Query struct {
	// RunID selects the run. Empty means the most recent run.
	RunID string

	// Bucket filters by reporting partition. Empty means all results.
	Bucket types.Bucket

	// MinConfidence drops results below this confidence.
	MinConfidence float64

	// Limit caps the result count. Zero uses the store default; negative
	// means no limit.
	Limit int
}

// Runs lists recorded runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, generated_at, sensitivity, provider, total, privileged, high_risk
		 FROM runs ORDER BY generated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			r        RunSummary
			genAt    string
			sens     string
			provider sql.NullString
		)
		if err := rows.Scan(&r.ID, &genAt, &sens, &provider, &r.Total, &r.Privileged, &r.HighRisk); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.GeneratedAt, _ = time.Parse(timeLayout, genAt)
		r.Sensitivity = types.Sensitivity(sens)
		r.Provider = provider.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LatestRunID returns the id of the most recent run or ErrNoRuns.
func (s *Store) LatestRunID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM runs ORDER BY generated_at DESC, id LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoRuns
	}
	if err != nil {
		return "", fmt.Errorf("finding latest run: %w", err)
	}
	return id, nil
}

// Query returns the results of one run matching q, in detection order.
func (s *Store) Query(ctx context.Context, q Query) ([]types.DetectionResult, error) {
	runID, err := s.resolveRun(ctx, q.RunID)
	if err != nil {
		return nil, err
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT document, is_privileged, confidence, reasons, keywords, diagnostics
		 FROM results WHERE run_id = ?`)
	args = append(args, runID)

	switch q.Bucket {
	case types.BucketPrivileged:
		qb.WriteString(` AND is_privileged = 1`)
	case types.BucketNonPrivileged:
		qb.WriteString(` AND is_privileged = 0`)
	case types.BucketHighRisk:
		qb.WriteString(` AND high_risk = 1`)
	}

	if q.MinConfidence > 0 {
		qb.WriteString(` AND confidence >= ?`)
		args = append(args, q.MinConfidence)
	}

	qb.WriteString(` ORDER BY seq`)

	limit := q.Limit
	if limit == 0 {
		limit = s.maxResults
	}
	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	results := []types.DetectionResult{}
	for rows.Next() {
		var (
			r            types.DetectionResult
			reasonsJSON  sql.NullString
			keywordsJSON sql.NullString
			diagJSON     sql.NullString
		)
		if err := rows.Scan(&r.DocumentID, &r.IsPrivileged, &r.Confidence, &reasonsJSON, &keywordsJSON, &diagJSON); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		if err := unmarshalColumn(reasonsJSON, &r.Reasons); err != nil {
			return nil, fmt.Errorf("decoding reasons for %s: %w", r.DocumentID, err)
		}
		if err := unmarshalColumn(keywordsJSON, &r.Keywords); err != nil {
			return nil, fmt.Errorf("decoding keywords for %s: %w", r.DocumentID, err)
		}
		if err := unmarshalColumn(diagJSON, &r.Diagnostics); err != nil {
			return nil, fmt.Errorf("decoding diagnostics for %s: %w", r.DocumentID, err)
		}
		if r.Reasons == nil {
			r.Reasons = []string{}
		}
		if r.Keywords == nil {
			r.Keywords = []string{}
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// LoadRun rebuilds a full DetectionRun, partitioned into buckets, from the
// store. An empty id loads the most recent run.
func (s *Store) LoadRun(ctx context.Context, id string) (types.DetectionRun, error) {
	runID, err := s.resolveRun(ctx, id)
	if err != nil {
		return types.DetectionRun{}, err
	}

	var (
		genAt    string
		sens     string
		provider sql.NullString
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT generated_at, sensitivity, provider FROM runs WHERE id = ?`, runID,
	).Scan(&genAt, &sens, &provider)
	if err != nil {
		return types.DetectionRun{}, fmt.Errorf("loading run %s: %w", runID, err)
	}

	results, err := s.Query(ctx, Query{RunID: runID, Limit: -1})
	if err != nil {
		return types.DetectionRun{}, err
	}

	generatedAt, _ := time.Parse(timeLayout, genAt)
	return types.DetectionRun{
		ID:              runID,
		GeneratedAt:     generatedAt,
		Sensitivity:     types.Sensitivity(sens),
		Provider:        provider.String,
		PrivilegeReport: privilege.Partition(results),
	}, nil
}

func (s *Store) resolveRun(ctx context.Context, id string) (string, error) {
	if id == "" {
		return s.LatestRunID(ctx)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM runs WHERE id = ?`, id).Scan(&n); err != nil {
		return "", fmt.Errorf("looking up run: %w", err)
	}
	if n == 0 {
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return id, nil
}

func unmarshalColumn(col sql.NullString, v any) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), v)
}
