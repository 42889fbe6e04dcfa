// Package activation implements the activation-registry and elementwise-
// kernel collaborators from spec §6/§4.8: resolve_f/resolve_g/resolve_h by
// name, plus the per-row gate arithmetic (peephole add, clip, bias add,
// gate merge) the gate kernel (C8) composes them with.
//
// Formulas are adapted from the teacher's
// pkg/core/math/primitive/fp32/activations.go (itohio-EasyRobot), which
// computes Sigmoid/Tanh by round-tripping through float64 math.Exp/math.Tanh.
// This package instead calls github.com/chewxy/math32 directly on float32 —
// that dependency is already in the teacher's go.mod (used throughout
// pkg/core/math/primitive/fp32/la.go) but under-used for the activation
// functions; wiring it here avoids the float64 conversion on every element.
package activation

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
)

// GateActivation applies an element-wise activation in place over x[:n],
// using alpha/beta where the named function takes parameters (Affine,
// LeakyRelu, ThresholdedRelu, ScaledTanh, HardSigmoid, Elu); ignored
// otherwise.
type GateActivation func(x []float32, n int, alpha, beta float32)

// OutputActivation is the fused h-activation-then-output-projection kernel:
// out[i] = oGate[i] * g(cur[i]) for i in [0,n), using clippedTmp as scratch
// so cur is left untouched (c_cur must still equal the merged cell memory
// after this call). Matches resolve_h's signature in spec §6.
type OutputActivation func(cur, clippedTmp, oGate, out []float32, n int, alpha, beta float32)

var gateActivations = map[string]GateActivation{
	"Sigmoid":         Sigmoid,
	"Tanh":             Tanh,
	"Relu":             Relu,
	"Affine":           Affine,
	"LeakyRelu":        LeakyRelu,
	"ThresholdedRelu":  ThresholdedRelu,
	"ScaledTanh":       ScaledTanh,
	"HardSigmoid":      HardSigmoid,
	"Elu":              Elu,
	"Softsign":         Softsign,
	"Softplus":         Softplus,
}

// ResolveGate resolves resolve_f/resolve_g by name.
func ResolveGate(name string) (GateActivation, error) {
	fn, ok := gateActivations[name]
	if !ok {
		return nil, fmt.Errorf("activation: unknown activation %q", name)
	}
	return fn, nil
}

// ResolveOutput resolves resolve_h by name: the named activation applied to
// the cell state, fused with multiplication by the output gate.
func ResolveOutput(name string) (OutputActivation, error) {
	g, err := ResolveGate(name)
	if err != nil {
		return nil, err
	}
	return func(cur, clippedTmp, oGate, out []float32, n int, alpha, beta float32) {
		copy(clippedTmp[:n], cur[:n])
		g(clippedTmp[:n], n, alpha, beta)
		for i := 0; i < n; i++ {
			out[i] = oGate[i] * clippedTmp[i]
		}
	}, nil
}

// Sigmoid: 1 / (1 + exp(-x)).
func Sigmoid(x []float32, n int, _, _ float32) {
	for i := 0; i < n; i++ {
		x[i] = 1 / (1 + math32.Exp(-x[i]))
	}
}

// Tanh: tanh(x).
func Tanh(x []float32, n int, _, _ float32) {
	for i := 0; i < n; i++ {
		x[i] = math32.Tanh(x[i])
	}
}

// Relu: max(0, x).
func Relu(x []float32, n int, _, _ float32) {
	for i := 0; i < n; i++ {
		if x[i] < 0 {
			x[i] = 0
		}
	}
}

// Affine: alpha*x + beta.
func Affine(x []float32, n int, alpha, beta float32) {
	for i := 0; i < n; i++ {
		x[i] = alpha*x[i] + beta
	}
}

// LeakyRelu: x if x >= 0 else alpha*x.
func LeakyRelu(x []float32, n int, alpha, _ float32) {
	for i := 0; i < n; i++ {
		if x[i] < 0 {
			x[i] *= alpha
		}
	}
}

// ThresholdedRelu: x if x > alpha else 0.
func ThresholdedRelu(x []float32, n int, alpha, _ float32) {
	for i := 0; i < n; i++ {
		if x[i] <= alpha {
			x[i] = 0
		}
	}
}

// ScaledTanh: alpha*tanh(beta*x).
func ScaledTanh(x []float32, n int, alpha, beta float32) {
	for i := 0; i < n; i++ {
		x[i] = alpha * math32.Tanh(beta*x[i])
	}
}

// HardSigmoid: clamp(alpha*x + beta, 0, 1).
func HardSigmoid(x []float32, n int, alpha, beta float32) {
	for i := 0; i < n; i++ {
		v := alpha*x[i] + beta
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		x[i] = v
	}
}

// Elu: x if x >= 0 else alpha*(exp(x)-1).
func Elu(x []float32, n int, alpha, _ float32) {
	for i := 0; i < n; i++ {
		if x[i] < 0 {
			x[i] = alpha * (math32.Exp(x[i]) - 1)
		}
	}
}

// Softsign: x / (1 + |x|).
func Softsign(x []float32, n int, _, _ float32) {
	for i := 0; i < n; i++ {
		x[i] = x[i] / (1 + math32.Abs(x[i]))
	}
}

// Softplus: log(1 + exp(x)), computed in float64 to stay numerically sane
// for large positive x (mirrors the overflow guard in the teacher's
// fp32.Sigmoid rather than letting exp(x) overflow float32 silently).
func Softplus(x []float32, n int, _, _ float32) {
	const expMax = 88.0
	for i := 0; i < n; i++ {
		v := x[i]
		if v > expMax {
			x[i] = v
			continue
		}
		x[i] = float32(math.Log(1 + math.Exp(float64(v))))
	}
}
