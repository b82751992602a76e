package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	EnvDevice  = "SWDLINK_DEVICE"
	EnvDiagLog = "SWDLINK_DIAG_LOG"
)

// DefaultDevice is used when neither the file nor the environment names one.
const DefaultDevice = "/dev/ttyACM0"

// Load reads a YAML or TOML config (chosen by extension) and applies
// environment overrides. It does not validate.
func Load(path string) (*Config, error) {
	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config load failed (%s): %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	}

	ApplyEnv(&cfg, os.LookupEnv)
	return &cfg, nil
}

// ApplyEnv overrides probe settings from the environment.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDevice); ok && strings.TrimSpace(v) != "" {
		cfg.Probe.Device = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvDiagLog); ok {
		cfg.Probe.DiagLog = strings.TrimSpace(v)
	}
}
