package trace

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned when a requested trace or entry is absent.
var ErrNotFound = errors.New("not found")

// RunStatus records how far the processing of a recorded run got.
type RunStatus string

// Run statuses.
const (
	RunStatusUndefined       RunStatus = "UNDEFINED"
	RunStatusExecuted        RunStatus = "RUN_EXECUTED"
	RunStatusAssertionFailed RunStatus = "ASSERTION_FAILED"
	RunStatusAssertionPassed RunStatus = "ASSERTION_SUCCESS"
)

// Reader gives access to the traces of one recorded run.
type Reader interface {
	// ReadWindowTrace returns the window manager trace, or an error wrapping
	// ErrNotFound when the run has none.
	ReadWindowTrace() (*WindowTrace, error)

	// ReadLayersTrace returns the compositor trace, or an error wrapping
	// ErrNotFound when the run has none.
	ReadLayersTrace() (*LayersTrace, error)

	// ArtifactPath identifies the archive the traces came from.
	ArtifactPath() string

	// Slice returns a reader restricted to [start, end].
	Slice(start, end Timestamp) (Reader, error)
}

// StatusUpdater is implemented by readers whose archive records a run status.
type StatusUpdater interface {
	UpdateStatus(status RunStatus)
}

// ParsedReader serves already decoded traces from memory.
type ParsedReader struct {
	path   string
	wm     *WindowTrace
	layers *LayersTrace

	mu     sync.Mutex
	status RunStatus
}

// NewParsedReader returns a reader over decoded traces. Either trace may be
// nil when the run did not record it.
func NewParsedReader(path string, wm *WindowTrace, layers *LayersTrace) *ParsedReader {
	return &ParsedReader{path: path, wm: wm, layers: layers, status: RunStatusUndefined}
}

// ReadWindowTrace implements Reader.
func (r *ParsedReader) ReadWindowTrace() (*WindowTrace, error) {
	if r.wm == nil {
		return nil, fmt.Errorf("window trace in %q: %w", r.path, ErrNotFound)
	}
	return r.wm, nil
}

// ReadLayersTrace implements Reader.
func (r *ParsedReader) ReadLayersTrace() (*LayersTrace, error) {
	if r.layers == nil {
		return nil, fmt.Errorf("layers trace in %q: %w", r.path, ErrNotFound)
	}
	return r.layers, nil
}

// ArtifactPath implements Reader.
func (r *ParsedReader) ArtifactPath() string {
	return r.path
}

// Slice implements Reader.
func (r *ParsedReader) Slice(start, end Timestamp) (Reader, error) {
	out := NewParsedReader(r.path, nil, nil)
	if r.wm != nil {
		wm, err := r.wm.Slice(start, end)
		if err != nil {
			return nil, fmt.Errorf("slice window trace: %w", err)
		}
		out.wm = wm
	}
	if r.layers != nil {
		layers, err := r.layers.Slice(start, end)
		if err != nil {
			return nil, fmt.Errorf("slice layers trace: %w", err)
		}
		out.layers = layers
	}
	return out, nil
}

// UpdateStatus implements StatusUpdater.
func (r *ParsedReader) UpdateStatus(status RunStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
}

// Status returns the last recorded run status.
func (r *ParsedReader) Status() RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}
