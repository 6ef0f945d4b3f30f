package trainer

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/serpent/agent"
	"github.com/pthm-cable/serpent/config"
	"github.com/pthm-cable/serpent/neural"
	"github.com/pthm-cable/serpent/telemetry"
)

// ErrNoGenerations is returned by Best before any generation was scored.
var ErrNoGenerations = errors.New("trainer: no generation scored yet")

// hallSize is the number of individuals kept in the hall of fame.
const hallSize = 10

// Trainer owns a population and drives the evaluate/evolve loop.
// A single generator feeds games, pairing and mutation so a seed
// reproduces a whole run.
type Trainer struct {
	rng     *rand.Rand
	cfg     *config.Config
	fitness FitnessWeights

	pop        *neural.Population
	generation int

	collector *telemetry.Collector
	hof       *telemetry.HallOfFame
	perf      *telemetry.PerfCollector
	out       *telemetry.OutputManager
}

// New creates a trainer with a fresh random population. out may be nil.
func New(rng *rand.Rand, cfg *config.Config, out *telemetry.OutputManager) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	nc := cfg.Neural()
	pop, err := neural.NewPopulation(rng, nc.PopulationSize, nil, nc.Layers, true)
	if err != nil {
		return nil, fmt.Errorf("creating population: %w", err)
	}
	return &Trainer{
		rng: rng,
		cfg: cfg,
		fitness: FitnessWeights{
			Food: cfg.Fitness.FoodWeight,
			Step: cfg.Fitness.StepWeight,
		},
		pop:       pop,
		collector: telemetry.NewCollector(nc.PopulationSize),
		hof:       telemetry.NewHallOfFame(hallSize),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		out:       out,
	}, nil
}

// RunGeneration plays one episode per individual, records the scores and
// replaces the population with its offspring.
func (t *Trainer) RunGeneration() (telemetry.GenerationStats, error) {
	t.perf.StartGeneration()

	t.perf.StartPhase(telemetry.PhaseEvaluate)
	for i := 0; i < t.pop.Size(); i++ {
		res, err := t.evaluate(i)
		if err != nil {
			return telemetry.GenerationStats{}, err
		}
		if err := t.pop.SetScore(i, res.Fitness); err != nil {
			return telemetry.GenerationStats{}, err
		}
		t.collector.RecordEpisode(telemetry.EpisodeRecord{
			Fitness: res.Fitness,
			Food:    res.Food,
			Steps:   res.Steps,
			Changes: res.Changes,
		})
		t.hof.Consider(telemetry.HallEntry{
			Generation: t.generation,
			Index:      i,
			Fitness:    res.Fitness,
			Food:       res.Food,
			Steps:      res.Steps,
			Network:    t.pop.Individual(i),
		})
	}

	t.perf.StartPhase(telemetry.PhaseEvolve)
	next, outcome, err := neural.Evolve(t.rng, t.pop, t.cfg.Mutation)
	if err != nil {
		return telemetry.GenerationStats{}, fmt.Errorf("generation %d: %w", t.generation, err)
	}
	if outcome.Reset {
		slog.Debug("population reset", "generation", t.generation)
	}

	t.perf.StartPhase(telemetry.PhaseTelemetry)
	stats := t.collector.Flush(t.generation, outcome)
	t.perf.EndGeneration(stats.Size)
	t.report(stats)

	t.pop = next
	t.generation++
	return stats, nil
}

func (t *Trainer) evaluate(i int) (EpisodeResult, error) {
	policy, err := agent.NewDarwin(t.pop.Individual(i), agent.DefaultActions)
	if err != nil {
		return EpisodeResult{}, err
	}
	res, err := Episode(t.rng, policy, t.cfg.Game, t.fitness)
	if err != nil {
		return EpisodeResult{}, fmt.Errorf("individual %d: %w", i, err)
	}
	return res, nil
}

// report logs and writes the stats. Output errors are logged, not returned.
func (t *Trainer) report(stats telemetry.GenerationStats) {
	perfStats := t.perf.Stats()

	if every := t.cfg.Telemetry.LogEvery; every > 0 && stats.Generation%every == 0 {
		stats.LogStats()
		slog.Debug("perf", "stats", perfStats)
	}

	if t.out != nil {
		if err := t.out.WriteGeneration(stats); err != nil {
			slog.Error("failed to write generation", "error", err)
		}
		if err := t.out.WritePerf(perfStats, stats.Generation); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// Run executes the given number of generations.
func (t *Trainer) Run(generations int) error {
	for i := 0; i < generations; i++ {
		if _, err := t.RunGeneration(); err != nil {
			return err
		}
	}
	return nil
}

// Population returns the current, not yet scored, population.
func (t *Trainer) Population() *neural.Population { return t.pop }

// Generation returns the number of generations run so far.
func (t *Trainer) Generation() int { return t.generation }

// Best returns the highest scoring individual seen during the run.
func (t *Trainer) Best() (telemetry.HallEntry, error) {
	best, ok := t.hof.Best()
	if !ok {
		return telemetry.HallEntry{}, ErrNoGenerations
	}
	return best, nil
}

// HallOfFame returns the top individuals seen, best first.
func (t *Trainer) HallOfFame() []telemetry.HallEntry { return t.hof.Entries() }
