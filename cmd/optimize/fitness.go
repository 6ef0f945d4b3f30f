package main

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/serpent/config"
	"github.com/pthm-cable/serpent/telemetry"
	"github.com/pthm-cable/serpent/trainer"
)

// FitnessEvaluator runs headless training runs and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int
	seeds       []int64
	baseConfig  *config.Config

	// Best run tracking
	bestFitness    float64
	bestHallOfFame []telemetry.HallEntry
	lastQuality    float64 // quality from most recent Evaluate call
	lastFood       float64 // mean final best food from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, generations int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		generations: generations,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() []telemetry.HallEntry {
	return fe.bestHallOfFame
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	return fe.lastQuality
}

// LastFood returns the food score from the most recent evaluation.
func (fe *FitnessEvaluator) LastFood() float64 {
	return fe.lastFood
}

// tailGenerations is the number of final generations averaged into a run's score.
const tailGenerations = 5

// runResult holds the results from a single training run.
type runResult struct {
	stats      []telemetry.GenerationStats
	hallOfFame []telemetry.HallEntry
	err        error
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run one after another. A parameter set that fails to train scores +Inf.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		fe.lastQuality, fe.lastFood = 0, 0
		return math.Inf(1)
	}

	var totalFitness, totalQuality, totalFood float64
	bestSeedFitness := math.Inf(1)
	var bestSeedHallOfFame []telemetry.HallEntry

	for _, seed := range fe.seeds {
		result := fe.runTraining(cfg, seed)
		if result.err != nil {
			fe.lastQuality, fe.lastFood = 0, 0
			return math.Inf(1)
		}
		food := tailBestFood(result.stats)
		quality := computeQuality(result.stats)
		fitness := computeFitness(food, quality)

		totalFitness += fitness
		totalQuality += quality
		totalFood += food
		if fitness < bestSeedFitness {
			bestSeedFitness = fitness
			bestSeedHallOfFame = result.hallOfFame
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.lastQuality = totalQuality / n
	fe.lastFood = totalFood / n

	return avgFitness
}

// runTraining executes a single headless training run.
func (fe *FitnessEvaluator) runTraining(cfg *config.Config, seed int64) runResult {
	runCfg := cfg.Clone()
	runCfg.Telemetry.LogEvery = 0

	t, err := trainer.New(rand.New(rand.NewSource(seed)), runCfg, nil)
	if err != nil {
		return runResult{err: err}
	}

	result := runResult{stats: make([]telemetry.GenerationStats, 0, fe.generations)}
	for i := 0; i < fe.generations; i++ {
		stats, err := t.RunGeneration()
		if err != nil {
			return runResult{err: fmt.Errorf("seed %d: %w", seed, err)}
		}
		result.stats = append(result.stats, stats)
	}
	result.hallOfFame = t.HallOfFame()
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(food × (1.0 + 0.2 × quality))
// Food dominates; quality adds up to 20% bonus to differentiate
// parameter sets that reach similar scores.
func computeFitness(food, quality float64) float64 {
	return -(food * (1.0 + 0.2*quality))
}

// tailBestFood averages the best food count over the final generations.
func tailBestFood(stats []telemetry.GenerationStats) float64 {
	if len(stats) == 0 {
		return 0
	}
	tail := stats[max(0, len(stats)-tailGenerations):]
	food := make([]float64, len(tail))
	for i, s := range tail {
		food[i] = float64(s.BestFood)
	}
	return stat.Mean(food, nil)
}

// Quality component weights.
const (
	qualityWeightSpread    = 0.40
	qualityWeightStability = 0.35
	qualityWeightResets    = 0.25
)

// computeQuality computes run quality ∈ [0, 1] from generation stats:
// how close the population mean tracks the best individual, how steady the
// best score is across the final generations, and how rarely the population
// had to be reset.
func computeQuality(stats []telemetry.GenerationStats) float64 {
	if len(stats) == 0 {
		return 0
	}

	var spreadSum float64
	var resets int
	for _, s := range stats {
		if s.BestFitness > 0 {
			spreadSum += s.MeanFitness / s.BestFitness
		}
		if s.Reset {
			resets++
		}
	}
	spreadScore := spreadSum / float64(len(stats))

	tail := stats[max(0, len(stats)-tailGenerations):]
	best := make([]float64, len(tail))
	for i, s := range tail {
		best[i] = s.BestFitness
	}
	stabilityScore := 0.0
	if len(best) >= 2 {
		c := cv(best)
		stabilityScore = math.Exp(-c * c)
	}

	resetScore := 1.0 - float64(resets)/float64(len(stats))

	quality := qualityWeightSpread*spreadScore +
		qualityWeightStability*stabilityScore +
		qualityWeightResets*resetScore

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	if mean == 0 {
		return 0
	}
	return math.Sqrt(variance) / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
