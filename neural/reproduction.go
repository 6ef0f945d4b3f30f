package neural

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Mutation controls how offspring weights are perturbed after crossover.
// A weight selected with probability Prob is rescaled to
// weight * Factor * amount, with amount drawn uniformly from [0, 1).
type Mutation struct {
	Prob   float64 `yaml:"prob"`
	Factor float64 `yaml:"factor"`
}

// DefaultMutation returns the standard mutation settings.
func DefaultMutation() Mutation {
	return Mutation{Prob: 0.2, Factor: 0.01}
}

// Validate checks that Prob is a probability.
func (m Mutation) Validate() error {
	if m.Prob < 0 || m.Prob > 1 {
		return fmt.Errorf("%w: mutation probability %v", ErrInvalidConfig, m.Prob)
	}
	return nil
}

// Reproduce breeds the next generation from pop.
//
// Offspring k averages the weights of pop.Individual(index1[k]) and
// pop.Individual(index2[k]) and then mutates them. Only the first Size()
// entries of each index slice are used. The returned population has fresh
// weight storage and zero scores; pop itself is left untouched.
func Reproduce(rng *rand.Rand, pop *Population, index1, index2 []int, mut Mutation) (*Population, error) {
	if err := mut.Validate(); err != nil {
		return nil, err
	}
	size := pop.Size()
	if len(index1) < size || len(index2) < size {
		return nil, fmt.Errorf("%w: %d/%d parent indices for %d offspring",
			ErrIndexOutOfRange, len(index1), len(index2), size)
	}
	for k := 0; k < size; k++ {
		a, b := index1[k], index2[k]
		if a < 0 || a >= size || b < 0 || b >= size {
			return nil, fmt.Errorf("%w: pair %d is (%d, %d), size %d", ErrIndexOutOfRange, k, a, b, size)
		}
	}

	offspring := make([]*Network, size)
	for k := 0; k < size; k++ {
		parentA := pop.individuals[index1[k]]
		parentB := pop.individuals[index2[k]]

		weights := make([]*mat.Dense, len(parentA.weights))
		for layer := range weights {
			weights[layer] = crossover(parentA.weights[layer], parentB.weights[layer])
			mutate(rng, weights[layer], mut)
		}

		child := newNetwork(pop.layers, weights)
		child.activation = parentA.activation
		offspring[k] = child
	}
	return newPopulationOf(pop.layers, offspring), nil
}

// crossover returns the element-wise mean of a and b in a new matrix.
func crossover(a, b *mat.Dense) *mat.Dense {
	var avg mat.Dense
	avg.Add(a, b)
	avg.Scale(0.5, &avg)
	return &avg
}

// mutate rescales a random subset of w in place.
func mutate(rng *rand.Rand, w *mat.Dense, mut Mutation) {
	w.Apply(func(_, _ int, v float64) float64 {
		amount := rng.Float64()
		if rng.Float64() < mut.Prob {
			return v * mut.Factor * amount
		}
		return v
	}, w)
}
