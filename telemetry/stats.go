package telemetry

import (
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// GenerationStats holds aggregated statistics for one scored generation.
type GenerationStats struct {
	Generation int `csv:"generation"`
	Size       int `csv:"size"`

	// Fitness distribution
	BestFitness float64 `csv:"best_fitness"`
	MeanFitness float64 `csv:"mean_fitness"`
	StdFitness  float64 `csv:"std_fitness"`
	P10Fitness  float64 `csv:"p10_fitness"`
	P50Fitness  float64 `csv:"p50_fitness"`
	P90Fitness  float64 `csv:"p90_fitness"`

	// Episode outcomes
	BestFood    int     `csv:"best_food"`
	MeanFood    float64 `csv:"mean_food"`
	MeanSteps   float64 `csv:"mean_steps"`
	MeanChanges float64 `csv:"mean_changes"`

	// Transition to the next generation
	Reset bool    `csv:"reset"`
	Norm  float64 `csv:"pair_norm"`
	Pairs int     `csv:"pairs"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	switch {
	case len(sorted) == 1 || p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}

// ComputeFitnessStats calculates mean, population std, and percentiles of values.
func ComputeFitnessStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, variance := stat.PopMeanVariance(values, nil)
	std = math.Sqrt(variance)

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("size", s.Size),
		slog.Float64("best_fitness", s.BestFitness),
		slog.Float64("mean_fitness", s.MeanFitness),
		slog.Float64("std_fitness", s.StdFitness),
		slog.Float64("p10_fitness", s.P10Fitness),
		slog.Float64("p50_fitness", s.P50Fitness),
		slog.Float64("p90_fitness", s.P90Fitness),
		slog.Int("best_food", s.BestFood),
		slog.Float64("mean_food", s.MeanFood),
		slog.Float64("mean_steps", s.MeanSteps),
		slog.Float64("mean_changes", s.MeanChanges),
		slog.Bool("reset", s.Reset),
		slog.Float64("pair_norm", s.Norm),
		slog.Int("pairs", s.Pairs),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("generation",
		"generation", s.Generation,
		"best_fitness", s.BestFitness,
		"mean_fitness", s.MeanFitness,
		"p50_fitness", s.P50Fitness,
		"best_food", s.BestFood,
		"mean_food", s.MeanFood,
		"mean_steps", s.MeanSteps,
		"reset", s.Reset,
		"pairs", s.Pairs,
	)
}
