package neural

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// SpeedDate samples breeding pairs from a matrix of mating probabilities.
//
// Each round draws an independent uniform number per cell and records every
// cell (i, j) whose draw falls below pairScores[i][j], scanning row-major.
// Rounds repeat until at least n pairs are collected, so the result may hold
// more than n pairs. Cells stay eligible across rounds and can repeat.
func SpeedDate(rng *rand.Rand, pairScores mat.Matrix) (parents1, parents2 []int, err error) {
	n, c := pairScores.Dims()
	if n != c {
		return nil, nil, fmt.Errorf("%w: pair matrix is %dx%d", ErrInvalidConfig, n, c)
	}
	if !hasPositive(pairScores) {
		return nil, nil, ErrNoPairs
	}

	parents1 = make([]int, 0, n)
	parents2 = make([]int, 0, n)
	for len(parents1) < n {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if rng.Float64() < pairScores.At(i, j) {
					parents1 = append(parents1, i)
					parents2 = append(parents2, j)
				}
			}
		}
	}
	return parents1, parents2, nil
}

func hasPositive(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if m.At(i, j) > 0 {
				return true
			}
		}
	}
	return false
}
