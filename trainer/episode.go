// Package trainer scores populations of snake policies and evolves them
// generation by generation.
package trainer

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/serpent/agent"
	"github.com/pthm-cable/serpent/snake"
)

// FitnessWeights turns episode statistics into a single score.
type FitnessWeights struct {
	Food float64 // per food eaten
	Step float64 // per step survived
}

// Score returns the weighted fitness, never below zero.
func (w FitnessWeights) Score(food, steps int) float64 {
	return max(0, w.Food*float64(food)+w.Step*float64(steps))
}

// EpisodeResult is the outcome of one game.
type EpisodeResult struct {
	Fitness float64
	Food    int
	Steps   int
	Changes int // action changes, if the policy tracks them
	Alive   bool
}

// changeCounter is implemented by policies that count heading changes.
type changeCounter interface {
	Changes() int
}

// Episode plays one game with policy until it ends and scores it.
func Episode(rng *rand.Rand, policy agent.Policy, opts snake.Options, fit FitnessWeights) (EpisodeResult, error) {
	g, err := snake.NewGame(rng, opts)
	if err != nil {
		return EpisodeResult{}, err
	}
	return Play(g, policy, fit)
}

// Play runs an already constructed game to completion.
func Play(g *snake.Game, policy agent.Policy, fit FitnessWeights) (EpisodeResult, error) {
	for !g.Done() {
		dir, err := policy.Act(g)
		if err != nil {
			return EpisodeResult{}, fmt.Errorf("%s policy at step %d: %w", policy.Name(), g.Steps(), err)
		}
		g.Turn(dir)
		g.Step()
	}

	res := EpisodeResult{
		Fitness: fit.Score(g.FoodEaten(), g.Steps()),
		Food:    g.FoodEaten(),
		Steps:   g.Steps(),
		Alive:   g.Alive(),
	}
	if cc, ok := policy.(changeCounter); ok {
		res.Changes = cc.Changes()
	}
	return res, nil
}
