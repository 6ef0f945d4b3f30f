package neural

import (
	"math/rand"
	"slices"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestPairScores(t *testing.T) {
	got := PairScores([]float64{1, 2, 3})
	want := mat.NewDense(3, 3, []float64{
		0, 2, 3,
		0, 0, 6,
		0, 0, 0,
	})
	if !mat.Equal(got, want) {
		t.Errorf("PairScores = %v, want %v", mat.Formatted(got), mat.Formatted(want))
	}
}

func TestEvolveAllZeroScoresResets(t *testing.T) {
	layers := []int{2, 3, 1}
	pop := newTestPopulation(t, 42, 3, layers)
	before := snapshotWeights(pop)

	rng := rand.New(rand.NewSource(7))
	next, outcome, err := Evolve(rng, pop, DefaultMutation())
	if err != nil {
		t.Fatalf("Evolve: %v", err)
	}
	if !outcome.Reset {
		t.Error("expected reset outcome for zero scores")
	}
	if outcome.Norm != 0 {
		t.Errorf("norm = %v, want 0", outcome.Norm)
	}
	if next.Size() != 3 {
		t.Errorf("size = %d, want 3", next.Size())
	}
	if !slices.Equal(next.Layers(), layers) {
		t.Errorf("layers = %v, want %v", next.Layers(), layers)
	}

	for k := 0; k < next.Size(); k++ {
		for i := range before {
			for layer, w := range before[i] {
				if mat.Equal(w, next.Individual(k).Weight(layer)) {
					t.Errorf("new individual %d layer %d equals old individual %d", k, layer, i)
				}
			}
		}
	}
}

func TestEvolveResetsWhenNoPairCanMate(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
	}{
		{"single scorer", []float64{0, 0, 5}},
		{"negative product", []float64{-1, 2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pop := newTestPopulation(t, 42, 3, []int{2, 1})
			if err := pop.SetScores(tt.scores); err != nil {
				t.Fatalf("SetScores: %v", err)
			}
			rng := rand.New(rand.NewSource(7))
			next, outcome, err := Evolve(rng, pop, DefaultMutation())
			if err != nil {
				t.Fatalf("Evolve: %v", err)
			}
			if !outcome.Reset {
				t.Error("expected reset outcome")
			}
			if next.Size() != 3 {
				t.Errorf("size = %d, want 3", next.Size())
			}
		})
	}
}

func TestEvolvePreservesArchitecture(t *testing.T) {
	layers := []int{8, 12, 4}
	pop := newTestPopulation(t, 42, 10, layers)
	for i := 0; i < pop.Size(); i++ {
		if err := pop.SetScore(i, float64(i+1)); err != nil {
			t.Fatalf("SetScore: %v", err)
		}
	}
	before := snapshotWeights(pop)

	rng := rand.New(rand.NewSource(7))
	next, outcome, err := Evolve(rng, pop, DefaultMutation())
	if err != nil {
		t.Fatalf("Evolve: %v", err)
	}
	if outcome.Reset {
		t.Fatal("unexpected reset with positive scores")
	}
	if outcome.Pairs < pop.Size() {
		t.Errorf("pairs = %d, want at least %d", outcome.Pairs, pop.Size())
	}
	if next.Size() != pop.Size() {
		t.Errorf("size = %d, want %d", next.Size(), pop.Size())
	}
	if !slices.Equal(next.Layers(), layers) {
		t.Errorf("layers = %v, want %v", next.Layers(), layers)
	}
	for k := 0; k < next.Size(); k++ {
		if next.Score(k) != 0 {
			t.Errorf("score[%d] = %v, want 0", k, next.Score(k))
		}
		child := next.Individual(k)
		if child.NumWeightLayers() != len(layers)-1 {
			t.Fatalf("child %d has %d weight layers", k, child.NumWeightLayers())
		}
		for layer := 0; layer < child.NumWeightLayers(); layer++ {
			r, c := child.Weight(layer).Dims()
			if r != layers[layer] || c != layers[layer+1] {
				t.Errorf("child %d layer %d is %dx%d, want %dx%d", k, layer, r, c, layers[layer], layers[layer+1])
			}
		}
	}

	// The scored generation is not modified in place.
	for i := range before {
		for layer, w := range before[i] {
			if !mat.Equal(w, pop.Individual(i).Weight(layer)) {
				t.Errorf("input individual %d layer %d changed", i, layer)
			}
		}
	}
}

func TestEvolveBreedsOnlyScoringPair(t *testing.T) {
	// Only (0, 1) has a non-zero pair score, so every child averages them.
	pop := newTestPopulation(t, 42, 3, []int{2, 3, 1})
	if err := pop.SetScores([]float64{1, 1, 0}); err != nil {
		t.Fatalf("SetScores: %v", err)
	}

	rng := rand.New(rand.NewSource(7))
	next, outcome, err := Evolve(rng, pop, Mutation{Prob: 0, Factor: 0.01})
	if err != nil {
		t.Fatalf("Evolve: %v", err)
	}
	if outcome.Reset {
		t.Fatal("unexpected reset")
	}

	for layer := 0; layer < 2; layer++ {
		var want mat.Dense
		want.Add(pop.Individual(0).Weight(layer), pop.Individual(1).Weight(layer))
		want.Scale(0.5, &want)
		for k := 0; k < next.Size(); k++ {
			if !mat.Equal(&want, next.Individual(k).Weight(layer)) {
				t.Errorf("child %d layer %d is not the average of parents 0 and 1", k, layer)
			}
		}
	}
}

func TestEvolveReproducible(t *testing.T) {
	run := func() *Population {
		pop := newTestPopulation(t, 42, 6, []int{4, 3, 2})
		if err := pop.SetScores([]float64{3, 1, 4, 1, 5, 9}); err != nil {
			t.Fatalf("SetScores: %v", err)
		}
		rng := rand.New(rand.NewSource(99))
		next, _, err := Evolve(rng, pop, DefaultMutation())
		if err != nil {
			t.Fatalf("Evolve: %v", err)
		}
		return next
	}

	a, b := run(), run()
	for k := 0; k < a.Size(); k++ {
		for layer := 0; layer < 2; layer++ {
			if !mat.Equal(a.Individual(k).Weight(layer), b.Individual(k).Weight(layer)) {
				t.Fatalf("same seed produced different child %d", k)
			}
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"single layer", func(c *Config) { c.Layers = []int{8} }},
		{"zero population", func(c *Config) { c.PopulationSize = 0 }},
		{"negative probability", func(c *Config) { c.Mutation.Prob = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
