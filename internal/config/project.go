package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Marshal renders the configuration as the YAML accepted in FileName.
// Verbose is a per-invocation setting and is left out.
func Marshal(cfg *Config) ([]byte, error) {
	c := *cfg
	c.Verbose = false
	data, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the configuration to FileName in dir
func Save(dir string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, FileName), data, 0644)
}
