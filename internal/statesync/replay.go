package statesync

import (
	"errors"
	"fmt"
	"sync"

	"github.com/roach88/flicker/internal/trace"
)

// ReplaySupplier returns a supplier yielding the recorded dumps of reader
// one per call, repeating the last once exhausted. Window and compositor
// entries are paired by index; the shorter trace repeats its last entry.
// A reader without traces is trace.ErrNotFound.
func ReplaySupplier(reader trace.Reader) (Supplier, error) {
	wm, err := reader.ReadWindowTrace()
	if err != nil && !errors.Is(err, trace.ErrNotFound) {
		return nil, fmt.Errorf("read window trace: %w", err)
	}
	layers, err := reader.ReadLayersTrace()
	if err != nil && !errors.Is(err, trace.ErrNotFound) {
		return nil, fmt.Errorf("read layers trace: %w", err)
	}

	var wmEntries []*trace.WindowState
	if wm != nil {
		wmEntries = wm.Entries()
	}
	var layerEntries []*trace.LayersState
	if layers != nil {
		layerEntries = layers.Entries()
	}

	n := max(len(wmEntries), len(layerEntries))
	if n == 0 {
		return nil, fmt.Errorf("replay %s: %w", reader.ArtifactPath(), trace.ErrNotFound)
	}

	dumps := make([]*trace.DeviceState, n)
	for i := range dumps {
		dumps[i] = &trace.DeviceState{WM: clamp(wmEntries, i), Layers: clamp(layerEntries, i)}
	}

	var (
		mu   sync.Mutex
		next int
	)
	return func() (*trace.DeviceState, error) {
		mu.Lock()
		defer mu.Unlock()
		d := dumps[min(next, n-1)]
		next++
		return d, nil
	}, nil
}

func clamp[E any](entries []E, i int) E {
	var zero E
	if len(entries) == 0 {
		return zero
	}
	return entries[min(i, len(entries)-1)]
}
