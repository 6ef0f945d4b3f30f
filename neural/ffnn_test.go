package neural

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewNetwork(t *testing.T) {
	tests := []struct {
		name   string
		layers []int
	}{
		{"single transition", []int{2, 1}},
		{"snake policy", []int{8, 12, 4}},
		{"deep", []int{3, 5, 5, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			nn, err := NewNetwork(rng, nil, tt.layers, true)
			if err != nil {
				t.Fatalf("NewNetwork: %v", err)
			}

			if got, want := nn.NumWeightLayers(), len(tt.layers)-1; got != want {
				t.Fatalf("weight layers = %d, want %d", got, want)
			}
			for i := 0; i < nn.NumWeightLayers(); i++ {
				r, c := nn.Weight(i).Dims()
				if r != tt.layers[i] || c != tt.layers[i+1] {
					t.Errorf("weights[%d] is %dx%d, want %dx%d", i, r, c, tt.layers[i], tt.layers[i+1])
				}
			}

			values := nn.Forward()
			if len(values) != len(tt.layers) {
				t.Fatalf("Forward returned %d layers, want %d", len(values), len(tt.layers))
			}
			for i, v := range values {
				if v.Len() != tt.layers[i] {
					t.Errorf("layer %d has %d values, want %d", i, v.Len(), tt.layers[i])
				}
			}
			if got := len(nn.Output()); got != tt.layers[len(tt.layers)-1] {
				t.Errorf("output length = %d, want %d", got, tt.layers[len(tt.layers)-1])
			}
		})
	}
}

func TestNewNetworkInvalid(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	tests := []struct {
		name   string
		rng    *rand.Rand
		input  []float64
		layers []int
		random bool
	}{
		{"no layers", rng, nil, nil, true},
		{"one layer", rng, nil, []int{3}, true},
		{"zero sized layer", rng, nil, []int{3, 0, 2}, true},
		{"negative layer", rng, nil, []int{3, -1}, false},
		{"random without rng", nil, nil, []int{2, 2}, true},
		{"input mismatch", rng, []float64{1, 2, 3}, []int{2, 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nn, err := NewNetwork(tt.rng, tt.input, tt.layers, tt.random)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
			if nn != nil {
				t.Error("expected no network on error")
			}
		})
	}
}

func TestForwardZeroWeights(t *testing.T) {
	nn, err := NewNetwork(nil, nil, []int{3, 4, 2}, false)
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}

	nn.Forward()
	for i, v := range nn.Output() {
		if v != 0.5 {
			t.Errorf("output[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestForwardIdentity(t *testing.T) {
	identity := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	nn, err := NewNetworkFromWeights([]int{2, 2}, []*mat.Dense{identity})
	if err != nil {
		t.Fatalf("NewNetworkFromWeights: %v", err)
	}

	out, err := nn.Activate([]float64{0.5, -0.5})
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}

	want := []float64{0.6225, 0.3775}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-4 {
			t.Errorf("output[%d] = %v, want ~%v", i, out[i], want[i])
		}
		if out[i] != Sigmoid([]float64{0.5, -0.5}[i]) {
			t.Errorf("output[%d] = %v, want sigmoid of input", i, out[i])
		}
	}
}

func TestForwardUsesRowVectorConvention(t *testing.T) {
	// 2 inputs -> 3 outputs; column j collects input weights for output j.
	w := mat.NewDense(2, 3, []float64{
		1, 0, 2,
		0, 1, 2,
	})
	nn, err := NewNetworkFromWeights([]int{2, 3}, []*mat.Dense{w})
	if err != nil {
		t.Fatalf("NewNetworkFromWeights: %v", err)
	}

	out, err := nn.Activate([]float64{1, -1})
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}

	want := []float64{Sigmoid(1), Sigmoid(-1), Sigmoid(0)}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Errorf("output[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestForwardDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	input := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8}
	nn, err := NewNetwork(rng, input, []int{8, 12, 4}, true)
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}

	nn.Forward()
	first := nn.Output()
	nn.Forward()
	second := nn.Output()

	for i := range first {
		if first[i] != second[i] {
			t.Fatal("Forward is not deterministic")
		}
		if first[i] <= 0 || first[i] >= 1 {
			t.Errorf("sigmoid output out of (0,1): %v", first[i])
		}
	}
}

func TestThresholdActivation(t *testing.T) {
	identity := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	nn, err := NewNetworkFromWeights([]int{2, 2}, []*mat.Dense{identity})
	if err != nil {
		t.Fatalf("NewNetworkFromWeights: %v", err)
	}
	nn.SetActivation(ThresholdActivation(DefaultThreshold))

	out, err := nn.Activate([]float64{0.5, 0.1})
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if out[0] != 1 || out[1] != 0 {
		t.Errorf("output = %v, want [1 0]", out)
	}

	nn.SetActivation(nil)
	out, _ = nn.Activate([]float64{0, 0})
	if out[0] != 0.5 {
		t.Errorf("nil activation should restore sigmoid, got %v", out[0])
	}
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		x, thr, want float64
	}{
		{0.3, 0.2, 1},
		{0.2, 0.2, 0},
		{-1, 0.2, 0},
		{0.1, 0, 1},
	}
	for _, tt := range tests {
		if got := Threshold(tt.x, tt.thr); got != tt.want {
			t.Errorf("Threshold(%v, %v) = %v, want %v", tt.x, tt.thr, got, tt.want)
		}
	}
}

func TestNewNetworkFromWeightsValidates(t *testing.T) {
	w := mat.NewDense(2, 3, nil)

	if _, err := NewNetworkFromWeights([]int{2, 2}, []*mat.Dense{w}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("shape mismatch: err = %v, want ErrInvalidConfig", err)
	}
	if _, err := NewNetworkFromWeights([]int{2, 3, 1}, []*mat.Dense{w}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("missing matrix: err = %v, want ErrInvalidConfig", err)
	}
	if _, err := NewNetworkFromWeights([]int{2, 3}, []*mat.Dense{nil}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("nil matrix: err = %v, want ErrInvalidConfig", err)
	}
}

func TestNewNetworkFromWeightsCopies(t *testing.T) {
	w := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	nn, err := NewNetworkFromWeights([]int{2, 2}, []*mat.Dense{w})
	if err != nil {
		t.Fatalf("NewNetworkFromWeights: %v", err)
	}

	w.Set(0, 0, 100)
	if got := nn.Weight(0).At(0, 0); got != 1 {
		t.Errorf("network weight changed with caller matrix: got %v", got)
	}
}

func TestClone(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn, err := NewNetwork(rng, []float64{1, 1, 1}, []int{3, 4, 2}, true)
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}

	clone := nn.Clone()
	if !mat.Equal(nn.Weight(0), clone.Weight(0)) || !mat.Equal(nn.Weight(1), clone.Weight(1)) {
		t.Fatal("clone weights differ from original")
	}
	if clone.Weight(0).(*mat.Dense) == nn.Weight(0).(*mat.Dense) {
		t.Error("clone shares weight storage with original")
	}

	nn.Forward()
	clone.Forward()
	a, b := nn.Output(), clone.Output()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("clone output[%d] = %v, want %v", i, b[i], a[i])
		}
	}
}

func TestSetInputWrongLength(t *testing.T) {
	nn, err := NewNetwork(nil, nil, []int{2, 1}, false)
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}
	if err := nn.SetInput([]float64{1}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
	if _, err := nn.Activate([]float64{1, 2, 3}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Activate err = %v, want ErrInvalidConfig", err)
	}
}
