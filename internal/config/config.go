package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gtpsa/internal/dynamo"
)

const (
	DefaultDt           = 0.01
	DefaultDuration     = 10.0
	DefaultOrder        = 4
	DefaultTurns        = 100
	DefaultSamples      = 16
	DefaultPerturbation = 1e-3
)

// Config describes one propagation run. Zero values in a loaded file fall
// back to DefaultConfig.
type Config struct {
	Model        string             `yaml:"model" toml:"model"`
	Integrator   string             `yaml:"integrator" toml:"integrator"`
	Order        int                `yaml:"order" toml:"order"`
	Dt           float64            `yaml:"dt" toml:"dt"`
	Duration     float64            `yaml:"duration" toml:"duration"`
	Adaptive     bool               `yaml:"adaptive" toml:"adaptive"`
	Tolerance    float64            `yaml:"tolerance" toml:"tolerance"`
	Seed         uint64             `yaml:"seed" toml:"seed"`
	Workers      int                `yaml:"workers" toml:"workers"`
	InitState    []float64          `yaml:"init_state,omitempty" toml:"init_state,omitempty"`
	Params       map[string]float64 `yaml:"params,omitempty" toml:"params,omitempty"`
	Turns        int                `yaml:"turns" toml:"turns"`
	Samples      int                `yaml:"samples" toml:"samples"`
	Perturbation float64            `yaml:"perturbation" toml:"perturbation"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:        "pendulum",
		Integrator:   "rk4",
		Order:        DefaultOrder,
		Dt:           DefaultDt,
		Duration:     DefaultDuration,
		Tolerance:    1e-8,
		Seed:         1,
		Workers:      1,
		Turns:        DefaultTurns,
		Samples:      DefaultSamples,
		Perturbation: DefaultPerturbation,
	}
}

// Validate checks the settings that do not depend on the model.
func (c *Config) Validate() error {
	switch {
	case c.Model == "":
		return fmt.Errorf("%w: model is required", dynamo.ErrParameterBounds)
	case c.Integrator == "":
		return fmt.Errorf("%w: integrator is required", dynamo.ErrParameterBounds)
	case c.Order < 1:
		return fmt.Errorf("%w: order must be at least 1, got %d", dynamo.ErrParameterBounds, c.Order)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", dynamo.ErrParameterBounds, c.Workers)
	case c.Turns < 0 || c.Samples < 0:
		return fmt.Errorf("%w: turns and samples must not be negative", dynamo.ErrParameterBounds)
	case c.Perturbation < 0:
		return fmt.Errorf("%w: perturbation must not be negative, got %g", dynamo.ErrParameterBounds, c.Perturbation)
	}
	return c.RunConfig().Validate()
}

// RunConfig returns the propagation settings.
func (c *Config) RunConfig() dynamo.Config {
	rc := dynamo.DefaultConfig()
	rc.Dt = c.Dt
	rc.Duration = c.Duration
	rc.Adaptive = c.Adaptive
	if c.Tolerance > 0 {
		rc.Tolerance = c.Tolerance
	}
	return rc
}

// InitialState returns the configured reference point, or def when none is
// set.
func (c *Config) InitialState(def []float64) []float64 {
	if len(c.InitState) == 0 {
		return append([]float64(nil), def...)
	}
	return append([]float64(nil), c.InitState...)
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	switch ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	default:
		return nil, fmt.Errorf("config: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg in the format chosen by the file extension.
func Save(path string, cfg *Config) error {
	var data []byte
	var err error
	switch ext(path) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	case ".toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(cfg)
		data = buf.Bytes()
	default:
		return fmt.Errorf("config: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
