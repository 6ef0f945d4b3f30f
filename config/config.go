// Package config provides configuration loading and access for training runs.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/serpent/agent"
	"github.com/pthm-cable/serpent/neural"
	"github.com/pthm-cable/serpent/snake"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid reports a configuration value outside its allowed range.
var ErrInvalid = errors.New("config: invalid value")

// Config holds all training configuration parameters.
type Config struct {
	Network    NetworkConfig    `yaml:"network"`
	Population PopulationConfig `yaml:"population"`
	Mutation   neural.Mutation  `yaml:"mutation"`
	Game       snake.Options    `yaml:"game"`
	Fitness    FitnessConfig    `yaml:"fitness"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// NetworkConfig holds the policy network topology.
type NetworkConfig struct {
	Hidden []int `yaml:"hidden"` // hidden layer sizes, may be empty
}

// PopulationConfig holds population parameters.
type PopulationConfig struct {
	Size int `yaml:"size"`
}

// FitnessConfig weights the episode statistics that make up an individual's score.
type FitnessConfig struct {
	FoodWeight float64 `yaml:"food_weight"` // per food eaten
	StepWeight float64 `yaml:"step_weight"` // per step survived
}

// TelemetryConfig holds logging and output parameters.
type TelemetryConfig struct {
	LogEvery   int `yaml:"log_every"`   // generations between stats log lines (0 = never)
	PerfWindow int `yaml:"perf_window"` // generations averaged by the perf collector
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	Layers []int // sensors, hidden..., actions
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Refresh(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns the embedded default configuration.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	layers := make([]int, 0, len(c.Network.Hidden)+2)
	layers = append(layers, snake.NumSensors)
	layers = append(layers, c.Network.Hidden...)
	layers = append(layers, len(agent.DefaultActions))
	c.Derived.Layers = layers
}

// Refresh recomputes derived values after fields were changed in code and
// validates the result.
func (c *Config) Refresh() error {
	c.computeDerived()
	return c.Validate()
}

// Neural returns the genetic algorithm settings.
func (c *Config) Neural() neural.Config {
	return neural.Config{
		Layers:         append([]int(nil), c.Derived.Layers...),
		PopulationSize: c.Population.Size,
		Mutation:       c.Mutation,
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Neural().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.Game.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Fitness.FoodWeight < 0 || c.Fitness.StepWeight < 0 {
		return fmt.Errorf("%w: fitness weights must be non-negative", ErrInvalid)
	}
	if c.Telemetry.LogEvery < 0 || c.Telemetry.PerfWindow < 0 {
		return fmt.Errorf("%w: telemetry intervals must be non-negative", ErrInvalid)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Network.Hidden = append([]int(nil), c.Network.Hidden...)
	clone.Derived.Layers = append([]int(nil), c.Derived.Layers...)
	return &clone
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
