// Package lstm implements the CPU compute engine for a one-layer ONNX LSTM
// operator: input validation, the fused-gate weight transposition, the
// per-step GEMM + gate-activation pipeline, and the forward/reverse/
// bidirectional orchestration around it. See SPEC_FULL.md for the full
// component map.
package lstm

import "github.com/akavalar/onnxruntime/pkg/logger"

// T is the scalar element type the engine computes over. Only float32 is
// implemented; the interface is written to be generic over T but double is
// acknowledged-not-implemented per spec Non-goals.
type T = float32

// Direction selects which time direction(s) the operator runs.
type Direction int

const (
	Forward Direction = iota
	Reverse
	Bidirectional
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	case Bidirectional:
		return "bidirectional"
	default:
		return "unknown"
	}
}

// NumDirections returns 2 for Bidirectional, 1 otherwise.
func (d Direction) NumDirections() int {
	if d == Bidirectional {
		return 2
	}
	return 1
}

// Gate indices in the internal fused layout [i,f,o,c], per spec §4.2 /
// Design Notes: the reorder from ONNX source order [i,o,f,c] is a
// performance contract only, never a numeric one.
const (
	gateI = 0
	gateF = 1
	gateO = 2
	gateC = 3
	numGates = 4
)

// Sizes bundles the shape parameters threaded through every component.
type Sizes struct {
	SeqLength  int // S
	BatchSize  int // B
	InputSize  int // I
	HiddenSize int // H
}

func (s Sizes) fourH() int { return 4 * s.HiddenSize }
func (s Sizes) threeH() int { return 3 * s.HiddenSize }
func (s Sizes) eightH() int { return 8 * s.HiddenSize }

// defaultLogger is used wherever a nil logger.Logger is supplied.
func defaultLogger() logger.Logger {
	return logger.Log
}
