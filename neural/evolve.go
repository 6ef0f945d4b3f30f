package neural

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Outcome describes how a generation transition was produced.
type Outcome struct {
	Reset bool    // population was re-randomized instead of bred
	Norm  float64 // Frobenius norm of the raw pair-score matrix
	Pairs int     // number of pairs sampled by SpeedDate (>= size unless Reset)
}

// PairScores returns the strictly upper-triangular part of the outer product
// scores x scores. Entry (i, j), i < j, is scores[i]*scores[j]; the diagonal
// and lower triangle are zero so nobody mates with themselves and each
// unordered pair appears once.
func PairScores(scores []float64) *mat.Dense {
	n := len(scores)
	v := mat.NewVecDense(n, append([]float64(nil), scores...))
	m := mat.NewDense(n, n, nil)
	m.Outer(1, v, v)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			m.Set(i, j, 0)
		}
	}
	return m
}

// Evolve produces the next generation from a scored population.
//
// Pair probabilities are the pair scores divided by their norm. When the norm
// is zero, or no pair has a positive probability, the population is replaced
// by freshly randomized networks of the same size and topology.
func Evolve(rng *rand.Rand, pop *Population, mut Mutation) (*Population, Outcome, error) {
	raw := PairScores(pop.scores)
	norm := mat.Norm(raw, 2)
	outcome := Outcome{Norm: norm}

	if norm == 0 {
		return reset(rng, pop, outcome)
	}

	var pairScores mat.Dense
	pairScores.Scale(1/norm, raw)

	parents1, parents2, err := SpeedDate(rng, &pairScores)
	if errors.Is(err, ErrNoPairs) {
		return reset(rng, pop, outcome)
	}
	if err != nil {
		return nil, outcome, err
	}
	outcome.Pairs = len(parents1)

	next, err := Reproduce(rng, pop, parents1, parents2, mut)
	if err != nil {
		return nil, outcome, fmt.Errorf("reproducing: %w", err)
	}
	return next, outcome, nil
}

func reset(rng *rand.Rand, pop *Population, outcome Outcome) (*Population, Outcome, error) {
	outcome.Reset = true
	fresh, err := NewPopulation(rng, pop.Size(), nil, pop.layers, true)
	if err != nil {
		return nil, outcome, fmt.Errorf("resetting population: %w", err)
	}
	return fresh, outcome, nil
}
