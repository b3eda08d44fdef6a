package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "geomip"
	configFile = "config.yaml"
)

// Load resolves the config file (--config, then ./config.yaml, then the
// user config dir), applies flag overrides and validates the result.
func Load() (*Config, error) {
	path := ConfigPath()
	if path == "" {
		path = findConfigFile()
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile returns the defaults overlaid with the YAML file at path. An empty
// path yields the defaults. Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if err := decodeFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return cfg, nil
}

func findConfigFile() string {
	for _, path := range []string{configFile, filepath.Join(ConfigDir(), configFile)} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory for geomip. It falls back
// to the working directory when the platform has none.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base, _ = filepath.Abs(".")
	}
	return filepath.Join(base, appName)
}

func decodeFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
