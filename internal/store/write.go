package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/flicker/internal/collector"
)

// RecordRun stores a collected run and its results in one transaction.
// Implements collector.Recorder.
func (s *Store) RecordRun(ctx context.Context, run *collector.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, test, artifact_path, failed)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.Test, run.ArtifactPath, boolToInt(run.Failed())); err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}

	for i, r := range run.Results {
		errsJSON, err := marshalErrors(r.Errors)
		if err != nil {
			return fmt.Errorf("record run %s: %w", run.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO assertion_results (run_id, idx, name, scenario, stability, passed, errors)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, run.ID, i, r.Name, string(r.Scenario), string(r.Stability), boolToInt(r.Passed), errsJSON); err != nil {
			return fmt.Errorf("record result %d of run %s: %w", i, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

// MetricsSink writes metrics of one session to the store.
// Later values for a key overwrite earlier ones.
//
// collector.MetricsSink has no error return, so the first write error is
// kept and reported by Err.
type MetricsSink struct {
	store   *Store
	session string

	mu  sync.Mutex
	err error
}

// NewMetricsSink returns a sink writing under session.
func (s *Store) NewMetricsSink(session string) *MetricsSink {
	return &MetricsSink{store: s, session: session}
}

// AddStringMetric implements collector.MetricsSink.
func (m *MetricsSink) AddStringMetric(key, value string) {
	_, err := m.store.db.Exec(`
		INSERT INTO metrics (session, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT(session, key) DO UPDATE SET value = excluded.value
	`, m.session, key, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil && m.err == nil {
		m.err = fmt.Errorf("write metric %q: %w", key, err)
	}
}

// Err returns the first write error, if any.
func (m *MetricsSink) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
