package activation

// ElementwiseProductAdd computes c[i] += a[i]*b[i] for i in [0,n) — the
// accumulating form spec §6 requires for peephole application
// (i_raw += peephole_i ⊙ c_prev).
func ElementwiseProductAdd(c, a, b []float32, n int) {
	for i := 0; i < n; i++ {
		c[i] += a[i] * b[i]
	}
}

// ClipAddBias clamps x to [-clip, clip] (when clip > 0) and then adds bias,
// in place over x[:n]. Matches spec §4.8's "clip, then add bias" gate
// pre-activation step.
func ClipAddBias(clip float32, bias, x []float32, n int) {
	clampInPlace(clip, x, n)
	for i := 0; i < n; i++ {
		x[i] += bias[i]
	}
}

// ClipIgnoreBias clamps x to [-clip, clip] (when clip > 0) without adding a
// bias term, used when use_bias is false. The second parameter is accepted
// and ignored so the kernel can be swapped for ClipAddBias behind the same
// call shape.
func ClipIgnoreBias(clip float32, _ []float32, x []float32, n int) {
	clampInPlace(clip, x, n)
}

func clampInPlace(clip float32, x []float32, n int) {
	if clip <= 0 {
		return
	}
	for i := 0; i < n; i++ {
		if x[i] > clip {
			x[i] = clip
		} else if x[i] < -clip {
			x[i] = -clip
		}
	}
}

// MergeLSTMGatesToMemory computes c_cur = f⊙c_prev + i⊙cBar, writing into
// cCur (which may alias cPrev for in-place update — see spec §4.9's note
// that c_prev[b] is updated in place after the merge).
func MergeLSTMGatesToMemory(cPrev, i, f, cBar, cCur []float32, n int) {
	for k := 0; k < n; k++ {
		cCur[k] = f[k]*cPrev[k] + i[k]*cBar[k]
	}
}
