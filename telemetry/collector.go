package telemetry

import "github.com/pthm-cable/serpent/neural"

// EpisodeRecord is the outcome of one individual's episode.
type EpisodeRecord struct {
	Fitness float64
	Food    int
	Steps   int
	Changes int
}

// Collector accumulates episode records within a generation and produces
// GenerationStats.
type Collector struct {
	fitness  []float64
	food     []float64
	steps    []float64
	changes  []float64
	bestFood int
}

// NewCollector creates a collector sized for the given population.
func NewCollector(size int) *Collector {
	return &Collector{
		fitness: make([]float64, 0, size),
		food:    make([]float64, 0, size),
		steps:   make([]float64, 0, size),
		changes: make([]float64, 0, size),
	}
}

// RecordEpisode adds one individual's result to the current generation.
func (c *Collector) RecordEpisode(r EpisodeRecord) {
	c.fitness = append(c.fitness, r.Fitness)
	c.food = append(c.food, float64(r.Food))
	c.steps = append(c.steps, float64(r.Steps))
	c.changes = append(c.changes, float64(r.Changes))
	if r.Food > c.bestFood {
		c.bestFood = r.Food
	}
}

// Count returns the number of episodes recorded since the last Flush.
func (c *Collector) Count() int {
	return len(c.fitness)
}

// Flush computes stats for the recorded generation and resets the collector.
// outcome describes how the next generation was produced from it.
func (c *Collector) Flush(generation int, outcome neural.Outcome) GenerationStats {
	stats := GenerationStats{
		Generation: generation,
		Size:       len(c.fitness),
		BestFood:   c.bestFood,
		Reset:      outcome.Reset,
		Norm:       outcome.Norm,
		Pairs:      outcome.Pairs,
	}

	if len(c.fitness) > 0 {
		stats.MeanFitness, stats.StdFitness, stats.P10Fitness, stats.P50Fitness, stats.P90Fitness =
			ComputeFitnessStats(c.fitness)
		stats.BestFitness = c.fitness[0]
		for _, f := range c.fitness[1:] {
			stats.BestFitness = max(stats.BestFitness, f)
		}
		stats.MeanFood = mean(c.food)
		stats.MeanSteps = mean(c.steps)
		stats.MeanChanges = mean(c.changes)
	}

	c.fitness = c.fitness[:0]
	c.food = c.food[:0]
	c.steps = c.steps[:0]
	c.changes = c.changes[:0]
	c.bestFood = 0

	return stats
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
