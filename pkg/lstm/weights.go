package lstm

// gateRemap maps a gate's position in the ONNX source order [i,o,f,c] to
// its position in the internal fused order [i,f,o,c] (gateI,gateF,gateO,
// gateC = 0,1,2,3). Source order: 0=i,1=o,2=f,3=c.
var gateRemap = [numGates]int{gateI, gateO, gateF, gateC}

// transposeGateWeights implements C2: remaps a per-direction weight slab
// from ONNX source layout [4*outDim rows (gate blocks of outDim rows each,
// order i,o,f,c), inDim cols] into the internal fused layout [inDim rows,
// 4*outDim cols (gate blocks of outDim cols each, order i,f,o,c)]. This
// turns the ONNX W·x gate-block matmul into a single row-major x·W_fused
// GEMM call over all four gates at once (spec §3/§4.2).
//
// dst must have length inDim*4*outDim and is fully overwritten; the remap
// is an exact copy with no accumulation.
func transposeGateWeights(src []T, inDim, outDim int, dst []T) {
	fourOutDim := 4 * outDim
	for srcGate := 0; srcGate < numGates; srcGate++ {
		dstGate := gateRemap[srcGate]
		srcBase := srcGate * outDim * inDim
		for r := 0; r < outDim; r++ {
			srcRow := srcBase + r*inDim
			for c := 0; c < inDim; c++ {
				dst[c*fourOutDim+dstGate*outDim+r] = src[srcRow+c]
			}
		}
	}
}

// fuseBias implements C3: bias_WR_g[k] = Wb_g[k] + Rb_g[k] for each gate g
// and k in [0,H), written into dst (length 4H) in the internal fused gate
// order so gate-kernel lookups stay index-aligned with
// transposeGateWeights's output. bias is the per-direction [8H] slab
// [Wb_i,Wb_o,Wb_f,Wb_c, Rb_i,Rb_o,Rb_f,Rb_c]; a nil bias (use_bias=false)
// is handled by the caller, which skips the add entirely rather than
// calling this with zeros.
func fuseBias(bias []T, hiddenSize int, dst []T) {
	for srcGate := 0; srcGate < numGates; srcGate++ {
		dstGate := gateRemap[srcGate]
		wOff := srcGate * hiddenSize
		rOff := (numGates + srcGate) * hiddenSize
		dOff := dstGate * hiddenSize
		for k := 0; k < hiddenSize; k++ {
			dst[dOff+k] = bias[wOff+k] + bias[rOff+k]
		}
	}
}

// peepholes implements C4: aliases (no copy) the three contiguous H-sized
// slices of a per-direction [3H] peephole slab, in source order
// [P_i, P_o, P_f]. The returned slices are read-only for the orchestrator's
// lifetime — Go slices already alias their backing array, so "binding"
// here is just computing the three sub-slice bounds.
type peepholeSlices struct {
	I, O, F []T
}

func peepholes(p []T, hiddenSize int) peepholeSlices {
	if p == nil {
		return peepholeSlices{}
	}
	return peepholeSlices{
		I: p[0:hiddenSize],
		O: p[hiddenSize : 2*hiddenSize],
		F: p[2*hiddenSize : 3*hiddenSize],
	}
}

func (p peepholeSlices) enabled() bool { return p.I != nil }
