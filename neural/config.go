package neural

import "fmt"

// Config holds the genetic algorithm settings.
type Config struct {
	// Layers is the full topology, input layer first.
	Layers         []int    `yaml:"layers"`
	PopulationSize int      `yaml:"population_size"`
	Mutation       Mutation `yaml:"mutation"`
}

// DefaultConfig returns settings for the 8-sensor, 4-action snake policy.
func DefaultConfig() Config {
	return Config{
		Layers:         []int{8, 12, 4},
		PopulationSize: 50,
		Mutation:       DefaultMutation(),
	}
}

// Validate checks the topology, population size and mutation settings.
func (c Config) Validate() error {
	if err := validateLayers(c.Layers); err != nil {
		return err
	}
	if c.PopulationSize <= 0 {
		return fmt.Errorf("%w: population size %d", ErrInvalidConfig, c.PopulationSize)
	}
	return c.Mutation.Validate()
}
