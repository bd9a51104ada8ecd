package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds the contents of .codefind/config.yaml.
type ProjectConfig struct {
	Version string `yaml:"version"`
	Root    string `yaml:"root"`
	LogPath string `yaml:"log_path"`
}

// loadProjectConfig reads .codefind/config.yaml from the current directory.
// Returns nil (no error) if the file does not exist.
func loadProjectConfig() (*ProjectConfig, error) {
	data, err := os.ReadFile(".codefind/config.yaml")
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveRoot returns the workspace root to use, applying the fallback
// chain:
//  1. Explicit --root flag value (non-empty override)
//  2. root from .codefind/config.yaml
//  3. Empty: single-file tools only, search_workspace disabled
func resolveRoot(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg, err := loadProjectConfig(); err == nil && cfg != nil && cfg.Root != "" {
		return cfg.Root
	}
	return ""
}

// resolveLogPath returns the JSONL tool-log path, applying the same
// fallback chain as resolveRoot. Empty disables tool logging.
func resolveLogPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg, err := loadProjectConfig(); err == nil && cfg != nil && cfg.LogPath != "" {
		return cfg.LogPath
	}
	return ""
}
