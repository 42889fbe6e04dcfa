package lstm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sigmoid64(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func TestUniDirectionalResetAllowsReuseAcrossBatches(t *testing.T) {
	sizes := Sizes{SeqLength: 1, BatchSize: 1, InputSize: 1, HiddenSize: 1}
	w := []T{0.1, 0.2, 0.3, 0.4}
	r := []T{0, 0, 0, 0}

	u, err := NewUniDirectionalLstm(sizes, false, Attributes{}, w, r, nil, nil, nil, nil)
	require.NoError(t, err)
	defer u.Close()

	first := make([]T, 1)
	require.Nil(t, u.Compute([]T{1}, nil, StepOutputs{YH: first}))

	u.Reset(nil, nil)

	second := make([]T, 1)
	require.Nil(t, u.Compute([]T{1}, nil, StepOutputs{YH: second}))

	assert.InDelta(t, float64(first[0]), float64(second[0]), 1e-6)
}

func TestUniDirectionalScalarForwardStep(t *testing.T) {
	// S=1,B=1,I=1,H=1,D=1, forward, W gate order i,o,f,c = 0.1,0.2,0.3,0.4,
	// R=0, no bias, no peepholes, zero initial state, X=[1.0].
	sizes := Sizes{SeqLength: 1, BatchSize: 1, InputSize: 1, HiddenSize: 1}
	w := []T{0.1, 0.2, 0.3, 0.4}
	r := []T{0, 0, 0, 0}

	u, err := NewUniDirectionalLstm(sizes, false, Attributes{}, w, r, nil, nil, nil, nil)
	require.NoError(t, err)
	defer u.Close()

	x := []T{1.0}
	yh := make([]T, 1)
	yc := make([]T, 1)
	yerr := u.Compute(x, nil, StepOutputs{YH: yh, YC: yc})
	require.Nil(t, yerr)

	cBar := math.Tanh(0.4)
	iT := sigmoid64(0.1)
	cCur := iT * cBar
	oT := sigmoid64(0.2)
	wantYh := oT * math.Tanh(cCur)

	assert.InDelta(t, wantYh, yh[0], 1e-5)
	assert.InDelta(t, cCur, yc[0], 1e-5)
}

func TestUniDirectionalZeroSeqLenKeepsInitialState(t *testing.T) {
	sizes := Sizes{SeqLength: 2, BatchSize: 2, InputSize: 1, HiddenSize: 1}
	w := []T{0.1, 0.2, 0.3, 0.4}
	r := []T{0, 0, 0, 0}
	initialH := []T{7, 9}
	initialC := []T{11, 13}

	u, err := NewUniDirectionalLstm(sizes, false, Attributes{}, w, r, nil, nil, initialH, initialC)
	require.NoError(t, err)
	defer u.Close()

	x := []T{1, 1, 1, 1} // [S,B,I]
	seqLens := []int32{2, 0}
	y := make([]T, 2*2*1)
	yh := make([]T, 2)
	yc := make([]T, 2)
	yerr := u.Compute(x, seqLens, StepOutputs{Y: y, YH: yh, YC: yc})
	require.Nil(t, yerr)

	// row 1 (seqLens=0): Y_h/Y_c equal initial state, Y fully zero for that row.
	assert.Equal(t, T(9), yh[1])
	assert.Equal(t, T(13), yc[1])
	assert.Equal(t, T(0), y[0*2+1]) // t=0, row1
	assert.Equal(t, T(0), y[1*2+1]) // t=1, row1
}

func TestUniDirectionalPadsZeroPastMaxLen(t *testing.T) {
	sizes := Sizes{SeqLength: 3, BatchSize: 1, InputSize: 1, HiddenSize: 1}
	w := []T{0.1, 0.2, 0.3, 0.4}
	r := []T{0, 0, 0, 0}

	u, err := NewUniDirectionalLstm(sizes, false, Attributes{}, w, r, nil, nil, nil, nil)
	require.NoError(t, err)
	defer u.Close()

	x := []T{1, 1, 1}
	seqLens := []int32{2}
	y := make([]T, 3*1*1)
	yerr := u.Compute(x, seqLens, StepOutputs{Y: y})
	require.Nil(t, yerr)

	assert.NotEqual(t, T(0), y[0])
	assert.Equal(t, T(0), y[2]) // t=2 >= seqLens[0]=2
}

func TestUniDirectionalYHMatchesLastValidStep(t *testing.T) {
	sizes := Sizes{SeqLength: 2, BatchSize: 2, InputSize: 1, HiddenSize: 1}
	w := []T{0.1, 0.2, 0.3, 0.4}
	r := []T{0, 0, 0, 0}

	u, err := NewUniDirectionalLstm(sizes, false, Attributes{}, w, r, nil, nil, nil, nil)
	require.NoError(t, err)
	defer u.Close()

	x := []T{1, 2, 3, 4}
	seqLens := []int32{2, 1}
	y := make([]T, 2*2*1)
	yh := make([]T, 2)
	yerr := u.Compute(x, seqLens, StepOutputs{Y: y, YH: yh})
	require.Nil(t, yerr)

	assert.InDelta(t, float64(y[1*2+0]), float64(yh[0]), 1e-6) // row0: t=1=seqLens-1
	assert.InDelta(t, float64(y[0*2+1]), float64(yh[1]), 1e-6) // row1: t=0=seqLens-1
}

func TestUniDirectionalInputForgetComplementsInputGate(t *testing.T) {
	sizes := Sizes{SeqLength: 1, BatchSize: 1, InputSize: 1, HiddenSize: 2}
	w := make([]T, 4*2*1)
	for i := range w {
		w[i] = T(i) * 0.05
	}
	r := make([]T, 4*2*2)
	initialC := []T{1, -1}

	u, err := NewUniDirectionalLstm(sizes, false, Attributes{InputForget: true}, w, r, nil, nil, nil, initialC)
	require.NoError(t, err)
	defer u.Close()

	x := []T{1}
	y := make([]T, 2)
	yerr := u.Compute(x, nil, StepOutputs{Y: y})
	require.Nil(t, yerr)
	// With x=1 and R=0, the pre-activations are the W rows (source order
	// i,o,f,c, two rows each). The f rows are unused: f_t = 1 - i_t, and the
	// non-zero initial cell makes f_t visible in the output.
	for k := 0; k < 2; k++ {
		iT := sigmoid64(float64(w[k]))
		oT := sigmoid64(float64(w[2+k]))
		cBar := math.Tanh(float64(w[6+k]))
		cCur := (1-iT)*float64(initialC[k]) + iT*cBar
		assert.InDelta(t, oT*math.Tanh(cCur), float64(y[k]), 1e-5)
	}
}

func TestUniDirectionalReverseTwiceRoundTripsViaBidirectionalSlots(t *testing.T) {
	sizes := Sizes{SeqLength: 3, BatchSize: 1, InputSize: 1, HiddenSize: 1}
	w := []T{0.1, 0.2, 0.3, 0.4}
	r := []T{0, 0, 0, 0}
	inputs2D := make([]T, 2*4*1) // D=2
	copy(inputs2D[0:4], w)
	copy(inputs2D[4:8], w)
	rBoth := make([]T, 2*4*1)
	copy(rBoth[0:4], r)
	copy(rBoth[4:8], r)

	in := Inputs{
		X: []T{1, 2, 3},
		W: inputs2D,
		R: rBoth,
	}
	attrs := Attributes{Direction: Bidirectional}
	bi, err := NewBidirectionalLstm(sizes, attrs, in)
	require.NoError(t, err)
	defer bi.Close()

	y := make([]T, 3*2*1*1)
	yerr := bi.Compute(in.X, nil, Outputs{Y: y})
	require.Nil(t, yerr)

	// standalone forward half, for comparison
	fwd, err := NewUniDirectionalLstm(sizes, false, Attributes{}, w, r, nil, nil, nil, nil)
	require.NoError(t, err)
	defer fwd.Close()
	yFwd := make([]T, 3*1)
	ferr := fwd.Compute(in.X, nil, StepOutputs{Y: yFwd})
	require.Nil(t, ferr)

	for step := 0; step < 3; step++ {
		assert.InDelta(t, float64(yFwd[step]), float64(y[step*2+0]), 1e-5)
	}

	// The reverse slot (same weights) equals a forward run over the
	// time-reversed input, read back in reversed order: the input reversal
	// and the output re-reversal cancel out.
	fwdOnRev, err := NewUniDirectionalLstm(sizes, false, Attributes{}, w, r, nil, nil, nil, nil)
	require.NoError(t, err)
	defer fwdOnRev.Close()
	yFwdOnRev := make([]T, 3*1)
	rerr := fwdOnRev.Compute([]T{3, 2, 1}, nil, StepOutputs{Y: yFwdOnRev})
	require.Nil(t, rerr)

	for step := 0; step < 3; step++ {
		assert.InDelta(t, float64(yFwdOnRev[2-step]), float64(y[step*2+1]), 1e-5)
	}
}
