package main

import (
	"fmt"

	"escrutinio/internal/config"
	"escrutinio/internal/results"
)

// loadConfig returns the configured engine settings: defaults, or the
// file named by --config.
func loadConfig() (config.Config, error) {
	if rootFlags.config == "" {
		return config.Default(), nil
	}
	return config.LoadFromPath(rootFlags.config)
}

// loadSnapshot reads the snapshot document at path.
func loadSnapshot(path string) (*results.Snapshot, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}
	return results.LoadFromPath(path)
}

// resolveGranularity picks the granularity: the flag wins, then the
// snapshot's own mode tag.
func resolveGranularity(flag string, snap *results.Snapshot) (results.Granularity, error) {
	if flag != "" {
		return results.ParseGranularity(flag)
	}
	if snap.Mode != "" {
		return snap.Mode, nil
	}
	return results.Departments, nil
}
