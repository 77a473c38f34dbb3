// internal/config/load.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML file, then applies ROVER_* environment overrides.
// It does not validate.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes YAML bytes and applies environment overrides.
// Unknown keys are rejected.
func Parse(raw []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	return &cfg, nil
}

// overrides are the settings deployments change without editing the file.
type overrides struct {
	Name       string `env:"ROVER_NAME"`
	Backend    string `env:"ROVER_SENSOR_BACKEND"`
	Chip       string `env:"ROVER_SENSOR_CHIP"`
	IntervalMs int    `env:"ROVER_POLL_INTERVAL_MS"`
}

func applyEnv(cfg *Config) error {
	var o overrides
	if err := env.Parse(&o); err != nil {
		return err
	}

	if o.Name != "" {
		cfg.Rover.Name = o.Name
	}
	if o.Backend != "" {
		cfg.Rover.Sensor.Backend = o.Backend
	}
	if o.Chip != "" {
		cfg.Rover.Sensor.Chip = o.Chip
	}
	if o.IntervalMs != 0 {
		cfg.Rover.Poll.IntervalMs = o.IntervalMs
	}
	return nil
}
