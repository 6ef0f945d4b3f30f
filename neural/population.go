package neural

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Population is one generation of networks with index-aligned fitness scores.
// All individuals share the same layer sizes.
type Population struct {
	layers      []int
	individuals []*Network
	scores      []float64
}

// NewPopulation creates size independent networks of the given topology.
// Each individual gets its own freshly sampled weights.
func NewPopulation(rng *rand.Rand, size int, input []float64, layers []int, randomWeights bool) (*Population, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: population size %d", ErrInvalidConfig, size)
	}
	pop := &Population{
		layers:      append([]int(nil), layers...),
		individuals: make([]*Network, size),
		scores:      make([]float64, size),
	}
	for i := range pop.individuals {
		nn, err := NewNetwork(rng, input, layers, randomWeights)
		if err != nil {
			return nil, err
		}
		pop.individuals[i] = nn
	}
	return pop, nil
}

// newPopulationOf wraps already-built individuals; scores start at zero.
func newPopulationOf(layers []int, individuals []*Network) *Population {
	return &Population{
		layers:      append([]int(nil), layers...),
		individuals: individuals,
		scores:      make([]float64, len(individuals)),
	}
}

// Size returns the number of individuals.
func (p *Population) Size() int {
	return len(p.individuals)
}

// Layers returns a copy of the shared layer sizes.
func (p *Population) Layers() []int {
	return append([]int(nil), p.layers...)
}

// Individual returns the i-th network.
func (p *Population) Individual(i int) *Network {
	return p.individuals[i]
}

// Individuals returns the networks in index order. The slice is a copy; the
// networks are shared.
func (p *Population) Individuals() []*Network {
	return append([]*Network(nil), p.individuals...)
}

// SetScore records the fitness of individual i.
func (p *Population) SetScore(i int, score float64) error {
	if i < 0 || i >= len(p.scores) {
		return fmt.Errorf("%w: score index %d, size %d", ErrIndexOutOfRange, i, len(p.scores))
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return fmt.Errorf("%w: score %v for individual %d", ErrInvalidConfig, score, i)
	}
	p.scores[i] = score
	return nil
}

// SetScores records every fitness at once.
func (p *Population) SetScores(scores []float64) error {
	if len(scores) != len(p.scores) {
		return fmt.Errorf("%w: %d scores for %d individuals", ErrInvalidConfig, len(scores), len(p.scores))
	}
	for i, s := range scores {
		if err := p.SetScore(i, s); err != nil {
			return err
		}
	}
	return nil
}

// Score returns the fitness of individual i.
func (p *Population) Score(i int) float64 {
	return p.scores[i]
}

// Scores returns a copy of the fitness vector.
func (p *Population) Scores() []float64 {
	return append([]float64(nil), p.scores...)
}

// Best returns the index and score of the fittest individual.
// Ties resolve to the lowest index.
func (p *Population) Best() (int, float64) {
	i := floats.MaxIdx(p.scores)
	return i, p.scores[i]
}
