package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/flicker/internal/assertion"
	"github.com/roach88/flicker/internal/scenario"
	"github.com/roach88/flicker/internal/trace"
)

// RunRecord is a stored run without its results.
type RunRecord struct {
	Seq          int64  `json:"seq"`
	ID           string `json:"id"`
	Test         string `json:"test"`
	ArtifactPath string `json:"artifact_path"`
	Failed       bool   `json:"failed"`
}

// Runs returns every stored run in insertion order.
func (s *Store) Runs(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, test, artifact_path, failed
		FROM runs
		ORDER BY seq ASC, id ASC COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var failed int
		if err := rows.Scan(&r.Seq, &r.ID, &r.Test, &r.ArtifactPath, &failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Failed = failed != 0
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// Run returns the stored run with the given ID, or an error wrapping
// trace.ErrNotFound.
func (s *Store) Run(ctx context.Context, id string) (RunRecord, error) {
	var r RunRecord
	var failed int
	err := s.db.QueryRowContext(ctx, `
		SELECT seq, id, test, artifact_path, failed FROM runs WHERE id = ?
	`, id).Scan(&r.Seq, &r.ID, &r.Test, &r.ArtifactPath, &failed)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("run %s: %w", id, trace.ErrNotFound)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("query run %s: %w", id, err)
	}
	r.Failed = failed != 0
	return r, nil
}

// Results returns the results of a run in execution order.
func (s *Store) Results(ctx context.Context, runID string) ([]assertion.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, scenario, stability, passed, errors
		FROM assertion_results
		WHERE run_id = ?
		ORDER BY idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []assertion.Result
	for rows.Next() {
		var (
			r         assertion.Result
			scn, stab string
			passed    int
			errsJSON  string
		)
		if err := rows.Scan(&r.Name, &scn, &stab, &passed, &errsJSON); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Scenario = scenario.Type(scn)
		r.Stability = assertion.Stability(stab)
		r.Passed = passed != 0
		if r.Errors, err = unmarshalErrors(errsJSON); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

// Metrics returns the metrics written under session.
func (s *Store) Metrics(ctx context.Context, session string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value FROM metrics
		WHERE session = ?
		ORDER BY seq ASC
	`, session)
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metrics: %w", err)
	}
	return out, nil
}
