package neural

import "math"

// DefaultThreshold is the cut-off used by the threshold activation.
const DefaultThreshold = 0.2

// Activation is an element-wise transfer function applied after each layer's
// weighted sum.
type Activation func(x float64) float64

// Sigmoid is the logistic function 1 / (1 + e^-x). It is the default activation.
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Threshold returns 1 if x > thr and 0 otherwise.
func Threshold(x, thr float64) float64 {
	if x > thr {
		return 1
	}
	return 0
}

// ThresholdActivation returns a step activation firing above thr.
func ThresholdActivation(thr float64) Activation {
	return func(x float64) float64 {
		return Threshold(x, thr)
	}
}
