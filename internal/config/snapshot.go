package config

import (
	"encoding/json"
	"fmt"
)

// Snapshot returns a deterministic serialization of the resolved
// configuration. It participates in every render-task fingerprint, so any
// configuration change invalidates previously generated output.
func (c *Config) Snapshot() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config snapshot: %w", err)
	}
	return string(data), nil
}
