// Package neural provides the feedforward networks and the genetic algorithm
// that evolves them into snake-playing policies.
package neural

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Network is a fully connected feedforward network without biases.
// Layer i feeds layer i+1 through a layers[i] x layers[i+1] weight matrix.
type Network struct {
	layers      []int
	weights     []*mat.Dense    // len(layers)-1 matrices
	layerValues []*mat.VecDense // one vector per layer, [0] holds the input
	input       *mat.VecDense
	output      *mat.VecDense // copy of the last layer after Forward
	activation  Activation
}

// NewNetwork creates a network with the given layer sizes.
// With randomWeights every weight is drawn from the standard normal
// distribution using rng; otherwise all weights are zero and rng may be nil.
// A nil input leaves the input vector at zero.
func NewNetwork(rng *rand.Rand, input []float64, layers []int, randomWeights bool) (*Network, error) {
	if err := validateLayers(layers); err != nil {
		return nil, err
	}
	if randomWeights && rng == nil {
		return nil, fmt.Errorf("%w: random weights need a generator", ErrInvalidConfig)
	}

	weights := make([]*mat.Dense, len(layers)-1)
	for i := range weights {
		rows, cols := layers[i], layers[i+1]
		if !randomWeights {
			weights[i] = mat.NewDense(rows, cols, nil)
			continue
		}
		data := make([]float64, rows*cols)
		for k := range data {
			data[k] = rng.NormFloat64()
		}
		weights[i] = mat.NewDense(rows, cols, data)
	}

	nn := newNetwork(layers, weights)
	if input != nil {
		if err := nn.SetInput(input); err != nil {
			return nil, err
		}
	}
	return nn, nil
}

// NewNetworkFromWeights builds a network around copies of the given matrices.
// Each weights[i] must be layers[i] x layers[i+1].
func NewNetworkFromWeights(layers []int, weights []*mat.Dense) (*Network, error) {
	if err := validateLayers(layers); err != nil {
		return nil, err
	}
	if len(weights) != len(layers)-1 {
		return nil, fmt.Errorf("%w: %d weight matrices for %d layers", ErrInvalidConfig, len(weights), len(layers))
	}

	owned := make([]*mat.Dense, len(weights))
	for i, w := range weights {
		if w == nil {
			return nil, fmt.Errorf("%w: weight matrix %d is nil", ErrInvalidConfig, i)
		}
		r, c := w.Dims()
		if r != layers[i] || c != layers[i+1] {
			return nil, fmt.Errorf("%w: weight matrix %d is %dx%d, want %dx%d",
				ErrInvalidConfig, i, r, c, layers[i], layers[i+1])
		}
		owned[i] = mat.DenseCopyOf(w)
	}
	return newNetwork(layers, owned), nil
}

// newNetwork allocates the per-layer buffers. weights are taken as-is.
func newNetwork(layers []int, weights []*mat.Dense) *Network {
	nn := &Network{
		layers:      append([]int(nil), layers...),
		weights:     weights,
		layerValues: make([]*mat.VecDense, len(layers)),
		input:       mat.NewVecDense(layers[0], nil),
		output:      mat.NewVecDense(layers[len(layers)-1], nil),
		activation:  Sigmoid,
	}
	for i, n := range layers {
		nn.layerValues[i] = mat.NewVecDense(n, nil)
	}
	return nn
}

func validateLayers(layers []int) error {
	if len(layers) < 2 {
		return fmt.Errorf("%w: need at least 2 layers, got %d", ErrInvalidConfig, len(layers))
	}
	for i, n := range layers {
		if n <= 0 {
			return fmt.Errorf("%w: layer %d has size %d", ErrInvalidConfig, i, n)
		}
	}
	return nil
}

// SetActivation replaces the element-wise activation. A nil activation
// restores the sigmoid.
func (nn *Network) SetActivation(a Activation) {
	if a == nil {
		a = Sigmoid
	}
	nn.activation = a
}

// SetInput stores the vector used by the next Forward call.
func (nn *Network) SetInput(input []float64) error {
	if len(input) != nn.layers[0] {
		return fmt.Errorf("%w: input has %d values, want %d", ErrInvalidConfig, len(input), nn.layers[0])
	}
	for i, v := range input {
		nn.input.SetVec(i, v)
	}
	return nil
}

// Forward propagates the stored input through every layer and returns the
// values of all layers, input first. The returned vectors are owned by the
// network and are overwritten by the next call.
func (nn *Network) Forward() []*mat.VecDense {
	nn.layerValues[0].CopyVec(nn.input)
	for i, w := range nn.weights {
		next := nn.layerValues[i+1]
		// row vector times matrix == transposed matrix times column vector
		next.MulVec(w.T(), nn.layerValues[i])
		for j := 0; j < next.Len(); j++ {
			next.SetVec(j, nn.activation(next.AtVec(j)))
		}
	}
	nn.output.CopyVec(nn.layerValues[len(nn.layerValues)-1])
	return nn.layerValues
}

// Output returns a copy of the last layer as of the most recent Forward.
func (nn *Network) Output() []float64 {
	out := make([]float64, nn.output.Len())
	copy(out, nn.output.RawVector().Data)
	return out
}

// Activate sets the input, runs a forward pass and returns the output layer.
func (nn *Network) Activate(input []float64) ([]float64, error) {
	if err := nn.SetInput(input); err != nil {
		return nil, err
	}
	nn.Forward()
	return nn.Output(), nil
}

// Layers returns a copy of the layer sizes.
func (nn *Network) Layers() []int {
	return append([]int(nil), nn.layers...)
}

// NumWeightLayers returns the number of weight matrices.
func (nn *Network) NumWeightLayers() int {
	return len(nn.weights)
}

// Weight returns a read-only view of weight matrix i.
func (nn *Network) Weight(i int) mat.Matrix {
	return nn.weights[i]
}

// Weights returns deep copies of all weight matrices.
func (nn *Network) Weights() []*mat.Dense {
	out := make([]*mat.Dense, len(nn.weights))
	for i, w := range nn.weights {
		out[i] = mat.DenseCopyOf(w)
	}
	return out
}

// Clone creates a deep copy of the network, including its current input.
func (nn *Network) Clone() *Network {
	clone := newNetwork(nn.layers, nn.Weights())
	clone.input.CopyVec(nn.input)
	clone.activation = nn.activation
	return clone
}
