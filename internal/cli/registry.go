package cli

import (
	"github.com/roach88/flicker/internal/assertion"
	"github.com/roach88/flicker/internal/config"
)

// loadRegistry returns the built-in registry, or the one compiled from the
// CUE file at path.
func loadRegistry(path string) (*assertion.Registry, error) {
	if path == "" {
		return config.Default(), nil
	}
	reg, err := config.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return reg, nil
}
