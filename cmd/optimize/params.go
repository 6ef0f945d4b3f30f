package main

import (
	"math"

	"github.com/pthm-cable/serpent/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Mutation
			{Name: "mutation_prob", Path: "mutation.prob", Min: 0.0, Max: 1.0, Default: 0.2},
			{Name: "mutation_factor", Path: "mutation.factor", Min: 0.001, Max: 2.0, Default: 0.01},
			// Network (single hidden layer, rounded to an integer)
			{Name: "hidden_size", Path: "network.hidden[0]", Min: 2, Max: 32, Default: 12},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct and refreshes
// the derived topology. Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	clamped := pv.Clamp(values)

	cfg.Mutation.Prob = clamped[0]
	cfg.Mutation.Factor = clamped[1]
	cfg.Network.Hidden = []int{int(math.Round(clamped[2]))}

	return cfg.Refresh()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
// A config without hidden layers reports the default hidden size.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	hidden := pv.Specs[2].Default
	if len(cfg.Network.Hidden) > 0 {
		hidden = float64(cfg.Network.Hidden[0])
	}
	return []float64{
		cfg.Mutation.Prob,
		cfg.Mutation.Factor,
		hidden,
	}
}
